package logging

import (
	"github.com/sirupsen/logrus"
)

// CloneLogger returns a logger sharing the formatter, output and hooks
// of base, with its own level. A zero level keeps the one of base.
func CloneLogger(base *logrus.Logger, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(base.Formatter)
	l.SetOutput(base.Out)

	for _, hooks := range base.Hooks {
		for _, h := range hooks {
			l.AddHook(h)
		}
	}

	if level == 0 {
		level = base.GetLevel()
	}

	l.SetLevel(level)

	return l
}

// ComponentLogger returns an entry of the standard logger tagged with
// the component name, at a level that may differ from the global one.
func ComponentLogger(component string, level logrus.Level) *logrus.Entry {
	base := logrus.StandardLogger()

	if level == 0 || level == base.GetLevel() {
		return base.WithField("component", component)
	}

	return CloneLogger(base, level).WithField("component", component)
}
