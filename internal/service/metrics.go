package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oms_books_poll_cycles_total",
		Help: "Order poll cycles by result.",
	}, []string{"result"})

	ordersSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oms_books_orders_saved_total",
		Help: "Orders stored for the first time.",
	})

	orderSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oms_books_order_syncs_total",
		Help: "Order pushes to Books by result.",
	}, []string{"result"})

	webhookDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oms_books_webhook_dispatches_total",
		Help: "Stock webhook strategy runs by resource and result.",
	}, []string{"resource", "result"})

	stockPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oms_books_stock_pushes_total",
		Help: "Stock level pushes to the OMS by result.",
	}, []string{"result"})
)
