package sdoc

import "github.com/sirupsen/logrus"

const (
	logDebug = logrus.DebugLevel
	logWarn  = logrus.WarnLevel
)
