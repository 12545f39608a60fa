package main

import (
	"os"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	if err := newRootCmd().Execute(); err != nil {
		zlog.Logger.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}
