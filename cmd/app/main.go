package main

import (
	"go.uber.org/fx"

	"github.com/archivegram/archivegrambot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
