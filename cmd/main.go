package main

import (
	"github.com/webshop-labs/order-intake/internal/app"
	"github.com/webshop-labs/order-intake/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
