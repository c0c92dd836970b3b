package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"

	"github.com/gomtml/gomtml/mtml"
)

var deviceLabels = []string{"index", "name", "pci_address"}

// collector queries MTML on every scrape; nothing is cached between scrapes
// except the handles the mtml package itself keeps.
type collector struct {
	gpuUtilization *prometheus.Desc
	gpuTemperature *prometheus.Desc
	memoryTotal    *prometheus.Desc
	memoryUsed     *prometheus.Desc
}

func newCollector() *collector {
	return &collector{
		gpuUtilization: prometheus.NewDesc("mtml_gpu_utilization_percent",
			"Instantaneous GPU core utilization.", deviceLabels, nil),
		gpuTemperature: prometheus.NewDesc("mtml_gpu_temperature_celsius",
			"Current GPU core temperature.", deviceLabels, nil),
		memoryTotal: prometheus.NewDesc("mtml_memory_total_bytes",
			"Total frame-buffer memory.", deviceLabels, nil),
		memoryUsed: prometheus.NewDesc("mtml_memory_used_bytes",
			"Allocated frame-buffer memory.", deviceLabels, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.gpuUtilization
	ch <- c.gpuTemperature
	ch <- c.memoryTotal
	ch <- c.memoryUsed
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	count, err := mtml.DeviceCount()
	if err != nil {
		klog.Errorf("Failed to count devices: %v", err)
		return
	}
	for i := uint32(0); i < count; i++ {
		if err := c.collectDevice(ch, i); err != nil {
			klog.Errorf("Failed to collect device %d: %v", i, err)
		}
	}
}

func (c *collector) collectDevice(ch chan<- prometheus.Metric, index uint32) error {
	device, err := mtml.DeviceByIndex(index)
	if err != nil {
		return err
	}
	name, err := device.Name()
	if err != nil {
		return err
	}
	pci, err := device.PciInfo()
	if err != nil {
		return err
	}
	labels := []string{strconv.FormatUint(uint64(index), 10), name, pci.SbdfString()}

	gpu, err := device.Gpu()
	if err != nil {
		return err
	}
	defer func() {
		if err := gpu.Free(); err != nil {
			klog.Errorf("Failed to free GPU handle of device %d: %v", index, err)
		}
	}()
	if util, err := gpu.Utilization(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.gpuUtilization, prometheus.GaugeValue, float64(util), labels...)
	}
	if temp, err := gpu.Temperature(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.gpuTemperature, prometheus.GaugeValue, float64(temp), labels...)
	}

	memory, err := device.Memory()
	if err != nil {
		return err
	}
	defer func() {
		if err := memory.Free(); err != nil {
			klog.Errorf("Failed to free memory handle of device %d: %v", index, err)
		}
	}()
	if total, err := memory.Total(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.memoryTotal, prometheus.GaugeValue, float64(total), labels...)
	}
	if used, err := memory.Used(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.memoryUsed, prometheus.GaugeValue, float64(used), labels...)
	}
	return nil
}

