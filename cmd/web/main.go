package main

import "reviewdeck_backend/internal/app"

func main() {
	app.Run()
}
