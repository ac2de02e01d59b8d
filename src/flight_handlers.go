package main

import (
	"net/http"
	"strings"
	"time"

	"airline/src/booking"
	"airline/src/config"
	"airline/src/db"
	"airline/src/lib"
	"airline/src/models"
	"airline/src/types"
	"airline/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseFlightSpec(body *types.CreateFlightRequestBody) (booking.FlightSpec, error) {
	departureTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.DepartureTime)
	if err != nil {
		return booking.FlightSpec{}, err
	}
	arrivalTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.ArrivalTime)
	if err != nil {
		return booking.FlightSpec{}, err
	}
	return booking.FlightSpec{
		FlightNumber:  body.FlightNumber,
		Departure:     body.Departure,
		Destination:   body.Destination,
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		AirplaneID:    body.AirplaneID,
	}, nil
}

func flightHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/flights", func(ctx *gin.Context) {
			p := utils.GetPagination(ctx)
			filters := func(q *gorm.DB) *gorm.DB {
				if departure := ctx.Query("departure"); departure != "" {
					q = q.Where("LOWER(departure) LIKE ?", "%"+strings.ToLower(departure)+"%")
				}
				if destination := ctx.Query("destination"); destination != "" {
					q = q.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(destination)+"%")
				}
				// A malformed date is ignored rather than rejected.
				if raw := ctx.Query("departure_date"); raw != "" {
					if day, err := time.Parse("2006-01-02", raw); err == nil {
						q = q.Where("departure_time >= ? AND departure_time < ?", day, day.Add(24*time.Hour))
					}
				}
				if raw := ctx.Query("arrival_date"); raw != "" {
					if day, err := time.Parse("2006-01-02", raw); err == nil {
						q = q.Where("arrival_time >= ? AND arrival_time < ?", day, day.Add(24*time.Hour))
					}
				}
				return q
			}
			var flights []models.Flight
			var total int64
			dbi := db.GetDb()
			if err := filters(dbi.Model(&models.Flight{})).Count(&total).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := filters(dbi.Preload("Airplane")).
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
		POST("/flights", func(ctx *gin.Context) {
			var body types.CreateFlightRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			spec, err := parseFlightSpec(&body)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			flight, err := coordinator.CreateFlight(ctx.Request.Context(), spec)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": flight})
		}).
		GET("/flights/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var flight models.Flight
			err := db.GetDb().
				Preload("Airplane").
				First(&flight, params.ID).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
				return
			}
			stats, err := coordinator.Availability(ctx.Request.Context(), params.ID)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			flight.Stats = stats
			ctx.JSON(http.StatusOK, gin.H{"data": flight})
		}).
		GET("/flights/:id/reservations", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			dbi := db.GetDb()
			var flight models.Flight
			if err := dbi.First(&flight, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
				return
			}
			filters := func(q *gorm.DB) *gorm.DB {
				q = q.Where("flight_id = ?", params.ID)
				if status := ctx.Query("status"); status != "" {
					q = q.Where("status = ?", status)
				}
				return q
			}
			p := utils.GetPagination(ctx)
			var reservations []models.Reservation
			var total int64
			if err := filters(dbi.Model(&models.Reservation{})).Count(&total).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := filters(dbi).
				Order("created_at desc").
				Offset(p.Skip).
				Limit(p.Limit).
				Find(&reservations).
				Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservations, "count": len(reservations), "total": total, "page": p.Page})
		}).
		GET("/flights/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if cached := lib.CachedAvailability(ctx.Request.Context(), params.ID); cached != nil {
				ctx.JSON(http.StatusOK, gin.H{"data": cached, "cached": true})
				return
			}
			snapshot, err := coordinator.Availability(ctx.Request.Context(), params.ID)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			lib.CacheAvailability(ctx.Request.Context(), snapshot)
			ctx.JSON(http.StatusOK, gin.H{"data": snapshot})
		}).
		PUT("/flights/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateFlightRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			spec, err := parseFlightSpec(&body)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			flight, err := coordinator.UpdateFlight(ctx.Request.Context(), params.ID, spec)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": flight})
		}).
		DELETE("/flights/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := coordinator.DeleteFlight(ctx.Request.Context(), params.ID); err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
