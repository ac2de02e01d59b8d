package main

import (
	"net/http"

	"airline/src/booking"
	"airline/src/db"
	"airline/src/lib"
	"airline/src/lib/mailer"
	"airline/src/models"
	"airline/src/types"
	"airline/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			p := utils.GetPagination(ctx)
			filters := func(q *gorm.DB) *gorm.DB {
				if status := ctx.Query("status"); status != "" {
					q = q.Where("status = ?", status)
				}
				if flightID := ctx.Query("flight"); flightID != "" {
					q = q.Where("flight_id = ?", flightID)
				}
				if email := ctx.Query("passenger_email"); email != "" {
					q = q.Where("passenger_email = ?", booking.NormalizeEmail(email))
				}
				return q
			}
			var reservations []models.Reservation
			var total int64
			dbi := db.GetDb()
			if err := filters(dbi.Model(&models.Reservation{})).Count(&total).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := filters(dbi.Preload("Flight")).
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
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := coordinator.CreateReservation(
				ctx.Request.Context(),
				body.FlightID,
				body.PassengerName,
				body.PassengerEmail,
			)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			lib.InvalidateAvailability(ctx.Request.Context(), body.FlightID)
			// Delivery failure never rolls back the booking; it is
			// reported as a soft warning through email_sent.
			emailSent := mailer.SendReservationConfirmation(reservation)
			ctx.JSON(http.StatusCreated, gin.H{"data": reservation, "email_sent": emailSent})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var reservation models.Reservation
			err := db.GetDb().
				Preload("Flight.Airplane").
				First(&reservation, params.ID).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		POST("/reservations/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			result, err := coordinator.CancelReservation(ctx.Request.Context(), params.ID)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			if result.AlreadyCancelled {
				ctx.JSON(http.StatusOK, gin.H{
					"message":    "Reservation is already cancelled.",
					"data":       result,
					"email_sent": false,
				})
				return
			}
			lib.InvalidateAvailability(ctx.Request.Context(), result.Reservation.FlightID)
			emailSent := mailer.SendCancellation(result.Reservation)
			ctx.JSON(http.StatusOK, gin.H{
				"message":    "Reservation cancelled successfully.",
				"data":       result,
				"email_sent": emailSent,
			})
		})
	return g
}
