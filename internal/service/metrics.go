package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// gatewayFailures 语音网关调用失败次数；状态漂移只能靠它发现
var gatewayFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "offices",
	Name:      "voice_gateway_failures_total",
	Help:      "Voice gateway calls that failed and were swallowed.",
}, []string{"op"})
