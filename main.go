package main

import (
	"github.com/yeremiapane/qr-menu-builder/cmd"
	"github.com/yeremiapane/qr-menu-builder/config"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

func main() {
	utils.InitLogger()

	cfg := config.Load()
	cmd.RunCli(cfg)
}
