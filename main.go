package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clusterjunk/game"
	"github.com/milk9111/clusterjunk/log"
	"github.com/milk9111/clusterjunk/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "draw physics shapes")
	logLevel := flag.String("log-level", "info", "error, warn, info, debug or trace")
	skipMenu := flag.Bool("skip-menu", false, "start playing straight away")
	scheme := flag.String("scheme", "", "collision scheme: interaction or legacy (default from game.yaml)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	watch := flag.Bool("watch", false, "reload prefabs from disk when they change")
	flag.Parse()

	level, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		log.Fatal("%v", err)
	}
	log.SetLevel(level)

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Fatal("%v", err)
	}

	app, err := game.New(spec, game.Options{
		Debug:    *debug,
		SkipMenu: *skipMenu,
		Scheme:   *scheme,
		Level:    *levelName,
		Watch:    *watch,
	})
	if err != nil {
		log.Fatal("%v", err)
	}

	ebiten.SetWindowSize(spec.Window.Width, spec.Window.Height)
	ebiten.SetWindowTitle(spec.Window.Title)

	if err := ebiten.RunGame(NewGame(app, spec.Window.Width, spec.Window.Height)); err != nil {
		log.Fatal("%v", err)
	}
}
