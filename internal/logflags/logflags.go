// Package logflags configures per-component logging for the adapter,
// generalizing delve's pkg/logflags to this adapter's own components.
package logflags

import (
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var mapperFlag = false
var bridgeFlag = false
var wsserverFlag = false
var discoveryFlag = false
var engineFlag = false

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.PanicLevel
	}
	return logger
}

// Mapper returns true if the request/response/event mapper should log.
func Mapper() bool { return mapperFlag }

// MapperLogger returns a logger for internal/mapper.
func MapperLogger() *logrus.Entry {
	return makeLogger(mapperFlag, logrus.Fields{"layer": "mapper"})
}

// Bridge returns true if the engine-thread bridge should log.
func Bridge() bool { return bridgeFlag }

// BridgeLogger returns a logger for internal/bridge.
func BridgeLogger() *logrus.Entry {
	return makeLogger(bridgeFlag, logrus.Fields{"layer": "bridge"})
}

// WSServer returns true if the WebSocket session manager should log.
func WSServer() bool { return wsserverFlag }

// WSServerLogger returns a logger for internal/wsserver.
func WSServerLogger() *logrus.Entry {
	return makeLogger(wsserverFlag, logrus.Fields{"layer": "wsserver"})
}

// Discovery returns true if the HTTP discovery surface should log.
func Discovery() bool { return discoveryFlag }

// DiscoveryLogger returns a logger for internal/discovery.
func DiscoveryLogger() *logrus.Entry {
	return makeLogger(discoveryFlag, logrus.Fields{"layer": "discovery"})
}

// Engine returns true if the backend engine stand-in should log.
func Engine() bool { return engineFlag }

// EngineLogger returns a logger for internal/v4engine.
func EngineLogger() *logrus.Entry {
	return makeLogger(engineFlag, logrus.Fields{"layer": "engine"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets per-component flags from a comma-separated logstr, mirroring
// delve's pkg/logflags.Setup. logstr defaults to "mapper" when logFlag is
// set but logstr is empty; it is an error to pass logstr without logFlag.
func Setup(logFlag bool, logstr string, out io.Writer) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(io.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	if logstr == "" {
		logstr = "mapper"
	}
	for _, cmd := range strings.Split(logstr, ",") {
		switch cmd {
		case "mapper":
			mapperFlag = true
		case "bridge":
			bridgeFlag = true
		case "wsserver":
			wsserverFlag = true
		case "discovery":
			discoveryFlag = true
		case "engine":
			engineFlag = true
		}
	}
	return nil
}
