// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/waterlab/sensorlog/internal/config"
	"github.com/waterlab/sensorlog/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	ClearConsole()
	DrawLogo()
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting sensorlog v%s", nuts.GetVersion())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole resets the terminal before the banner is drawn
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"                                 __          ",
		"   ________  ____  _________  __/ /___  ____ _",
		"  / ___/ _ \\/ __ \\/ ___/ __ \\/ / / __ \\/ __ `/",
		" (__  )  __/ / / (__  ) /_/ / / / /_/ / /_/ / ",
		"/____/\\___/_/ /_/____/\\____/_/_/\\____/\\__, /  ",
		"......................................../____/ " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
