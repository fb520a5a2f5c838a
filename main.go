package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "test_room", "level name in levels/ (basename, .json optional)")
	scriptName := flag.String("script", "", "drive the player from a tengo script in prefabs/scripts instead of the keyboard")
	specName := flag.String("spec", prefabs.PlayerSpecFile, "player prefab in prefabs/ (.yaml or .toml)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformer")
	ebiten.SetTPS(60)

	game, err := NewGame(*levelName, *scriptName, *specName, *debug)
	if err != nil {
		log.Fatal(err)
	}

	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		log.Fatal(err)
	}
}
