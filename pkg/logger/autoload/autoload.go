// Package autoload initializes the global logger from the environment on
// blank import:
//
//	import _ "bankbot/pkg/logger/autoload"
package autoload

import (
	configx "bankbot/pkg/config"
	logx "bankbot/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
