package main

import (
	"time"

	"airline/src/booking"
	"airline/src/config"
	"airline/src/db"
	"airline/src/lib"
	"airline/src/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

const apiPrefix string = "/api/v1"

var coordinator *booking.Coordinator

func setupRouter() *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("flighttime", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(config.TIME_PARSE_FORMAT, fl.Field().String())
			return err == nil
		})
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(cors.Default())

	g := r.Group(apiPrefix)
	airplaneHandlers(g)
	flightHandlers(g)
	reservationHandlers(g)

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	return r
}

func main() {
	lib.SetupLogger()

	dbi := db.GetDb()
	if err := db.Migrate(dbi); err != nil {
		logrus.WithError(err).Fatal("error running migrations")
	}
	coordinator = booking.NewCoordinator(dbi, logrus.StandardLogger())

	r := setupRouter()
	addr := config.GetServerAddr()
	logrus.WithField("addr", addr).Info("starting server")
	if err := r.Run(addr); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
