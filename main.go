package main

import "inkpress/internal/app"

func main() {
	app.Run()
}
