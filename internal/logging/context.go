package logging

import "github.com/sirupsen/logrus"

// WithComponent returns an entry tagged with a subsystem name.
//
//	log := logging.WithComponent("engine")
//	log.Info("packing started")
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// WithPage returns an entry tagged with an atlas page index.
func WithPage(index int) *logrus.Entry {
	return GetLogger().WithField("page", index)
}

// WithSprite returns an entry tagged with a sprite's ID and label.
func WithSprite(id, label string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"sprite_id": id,
		"sprite":    label,
	})
}

// WithError returns an entry carrying err.
func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}
