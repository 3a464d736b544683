package version

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Info is the build identity reported on startup and in run summaries.
type Info struct {
	Commit   string `json:"commit" yaml:"commit"`
	Time     string `json:"time" yaml:"time"`
	Modified bool   `json:"modified" yaml:"modified"`
}

func (i Info) Fields() logrus.Fields {
	return logrus.Fields{
		"commit":   i.Commit,
		"time":     i.Time,
		"modified": i.Modified,
	}
}

var Version = func() Info {
	v := Info{}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.Commit = setting.Value
		case "vcs.time":
			v.Time = setting.Value
		case "vcs.modified":
			v.Modified = setting.Value == "true"
		}
	}
	return v
}()
