//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
)

func InitApp(path ConfigPath) (*App, func(), error) {
	wire.Build(
		NewApp,
		ProvideConfig,
		ProvideLogger,
		ProvideBoard,
		ProvidePollers,
		ProvideSinks,
	)
	return nil, nil, nil // wire will generate the result
}
