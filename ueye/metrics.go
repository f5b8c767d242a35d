package ueye

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesAcquired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ueye",
		Subsystem: "acquisition",
		Name:      "frames_total",
		Help:      "Frames read out of the buffer ring",
	}, []string{"device"})

	framesMissed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ueye",
		Subsystem: "acquisition",
		Name:      "missed_frames_total",
		Help:      "Waits for a frame that failed or timed out",
	}, []string{"device"})

	frameWait = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ueye",
		Subsystem: "acquisition",
		Name:      "frame_wait_seconds",
		Help:      "Time spent waiting for the next filled buffer",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"device"})

	buffersAllocated = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ueye",
		Subsystem: "memory",
		Name:      "buffers",
		Help:      "Image buffers currently registered with the driver",
	}, []string{"device"})

	frameRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ueye",
		Subsystem: "settings",
		Name:      "frame_rate_hz",
		Help:      "Frame rate applied by the driver",
	}, []string{"device"})

	exposure = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ueye",
		Subsystem: "settings",
		Name:      "exposure_ms",
		Help:      "Exposure time applied by the driver",
	}, []string{"device"})
)
