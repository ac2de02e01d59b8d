package main

import (
	"errors"
	"net/http"

	"airline/src/booking"
	"airline/src/db"
	"airline/src/models"
	"airline/src/types"
	"airline/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func airplaneHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/airplanes", func(ctx *gin.Context) {
			p := utils.GetPagination(ctx)
			filters := func(q *gorm.DB) *gorm.DB {
				if status := ctx.Query("status"); status != "" {
					active := status == "true" || status == "1" || status == "yes"
					q = q.Where("active = ?", active)
				}
				return q
			}
			var airplanes []models.Airplane
			var total int64
			dbi := db.GetDb()
			if err := filters(dbi.Model(&models.Airplane{})).Count(&total).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := filters(dbi).
				Order("production_year desc, tail_number asc").
				Offset(p.Skip).
				Limit(p.Limit).
				Find(&airplanes).
				Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": airplanes, "count": len(airplanes), "total": total, "page": p.Page})
		}).
		POST("/airplanes", func(ctx *gin.Context) {
			var body types.CreateAirplaneRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			active := true
			if body.Active != nil {
				active = *body.Active
			}
			airplane := models.Airplane{
				TailNumber:     body.TailNumber,
				Model:          body.Model,
				Capacity:       body.Capacity,
				ProductionYear: body.ProductionYear,
				Active:         active,
			}
			if err := db.GetDb().Create(&airplane).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					respondBookingError(ctx, booking.ErrTailNumberTaken)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": airplane})
		}).
		GET("/airplanes/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var airplane models.Airplane
			if err := db.GetDb().First(&airplane, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "airplane not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": airplane, "operational": airplane.IsOperational()})
		}).
		GET("/airplanes/:id/flights", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			dbi := db.GetDb()
			var airplane models.Airplane
			if err := dbi.First(&airplane, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "airplane not found"})
				return
			}
			p := utils.GetPagination(ctx)
			var flights []models.Flight
			var total int64
			if err := dbi.Model(&models.Flight{}).Where("airplane_id = ?", params.ID).Count(&total).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := dbi.
				Where("airplane_id = ?", params.ID).
				Order("departure_time asc").
				Offset(p.Skip).
				Limit(p.Limit).
				Find(&flights).
				Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": flights, "count": len(flights), "total": total, "page": p.Page})
		}).
		PUT("/airplanes/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateAirplaneRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var airplane models.Airplane
			dbi := db.GetDb()
			if err := dbi.First(&airplane, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "airplane not found"})
				return
			}
			airplane.TailNumber = body.TailNumber
			airplane.Model = body.Model
			airplane.Capacity = body.Capacity
			airplane.ProductionYear = body.ProductionYear
			if body.Active != nil {
				airplane.Active = *body.Active
			}
			if err := dbi.Save(&airplane).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					respondBookingError(ctx, booking.ErrTailNumberTaken)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": airplane})
		}).
		DELETE("/airplanes/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := coordinator.DeleteAirplane(ctx.Request.Context(), params.ID); err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
