package metrics

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReporter logs a snapshot on the given cron schedule (standard five
// field syntax or descriptors such as "@every 5m").  Stop the returned
// scheduler on shutdown.
func StartReporter(spec string, a *Aggregator, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { report(a, log) }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func report(a *Aggregator, log logrus.FieldLogger) {
	fields := logrus.Fields{}
	for k, v := range a.Snapshot() {
		fields[k] = v.String()
	}
	log.WithFields(fields).Info("metrics snapshot")
}
