package tool

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// PingResult is a condensed view of probing.Statistics.
type PingResult struct {
	Host       string
	Addr       string
	Sent       int
	Received   int
	PacketLoss float64
	AvgRtt     time.Duration
}

// PingServer sends count ICMP echoes to the processing server host.
// Unprivileged (UDP) mode is used so no raw socket capability is needed on linux/darwin.
func PingServer(ctx context.Context, serverURL string, count int) (*PingResult, error) {
	host, err := ServerHost(serverURL)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 3
	}
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %v", host, err)
	}
	pinger.Count = count
	pinger.Interval = 200 * time.Millisecond
	pinger.Timeout = time.Duration(count)*time.Second + 2*time.Second
	pinger.SetPrivileged(false)

	if err := pinger.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s failed: %v", host, err)
	}
	stats := pinger.Statistics()
	res := &PingResult{
		Host:       host,
		Sent:       stats.PacketsSent,
		Received:   stats.PacketsRecv,
		PacketLoss: stats.PacketLoss,
		AvgRtt:     stats.AvgRtt,
	}
	if stats.IPAddr != nil {
		res.Addr = stats.IPAddr.String()
	}
	return res, nil
}
