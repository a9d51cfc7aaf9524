package main

import (
	"kupanga_backend/internal/app"
)

func main() {
	app.Run()
}
