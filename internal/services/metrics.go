package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "murshop_orders",
		Help: "Number of orders per status at the last report",
	}, []string{"status"})

	DatabaseUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "murshop_database_up",
		Help: "1 if the last database ping succeeded",
	})

	BackupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murshop_backups_total",
		Help: "Database backups by result",
	}, []string{"result"})
)
