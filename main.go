package main

import (
	_ "time/tzdata" // Lottery and scheduler timezones must resolve on slim images.

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/superbett/bancas-api/cmd/app"
)

// @title           Bancas POS API
// @description     Ticket sales, jornadas and settlement for lottery bancas.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
