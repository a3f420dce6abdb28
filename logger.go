package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type logger struct{}

func (l logger) LookupError(name string, err error) {
	log.WithFields(log.Fields{
		"event_name": "lookup",
		"provider":   name,
	}).WithError(err).Error("provider lookup has failed")
}

func (l logger) ResolveError(err error) {
	log.WithFields(log.Fields{
		"event_name": "resolve",
	}).WithError(err).Error("location resolution has failed")
}

func (l logger) StoreError(err error) {
	log.WithFields(log.Fields{
		"event_name": "store",
	}).WithError(err).Error("visitor store operation has failed")
}

func newLogger() bfplib.Logger {
	return logger{}
}
