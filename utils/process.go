package utils

import (
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/sirupsen/logrus"
)

// WaitForCtrlC will block/wait until a control-c or termination signal is received
func WaitForCtrlC() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

// HandleSubroutinePanic logs a recovered panic of a background routine, use it deferred.
func HandleSubroutinePanic(identifier string) {
	if err := recover(); err != nil {
		logrus.WithField("module", "process").Errorf("uncaught panic in %v subroutine: %v, stack: %v", identifier, err, string(debug.Stack()))
	}
}
