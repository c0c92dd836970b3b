// mtmlinfo prints an inventory of the MT devices visible to the MTML
// library: driver and library versions, and per-device identity, memory and
// utilization figures.
package main

import (
	"flag"
	"fmt"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/gomtml/gomtml/mtml"
)

var flagUtilization = flag.Bool("utilization", true,
	"Also report per-device GPU/memory utilization, which requires acquiring the GPU and memory sub-components.")

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if err := mtml.Init(); err != nil {
		klog.Exitf("Failed to initialize MTML: %v", err)
	}
	defer func() {
		if err := mtml.Shutdown(); err != nil {
			klog.Errorf("Failed to shut MTML down: %v", err)
		}
	}()

	fmt.Printf("MTML library version: %s\n", must.M1(mtml.LibraryVersion()))
	fmt.Printf("Driver version:       %s\n", must.M1(mtml.DriverVersion()))

	count := must.M1(mtml.DeviceCount())
	fmt.Printf("Devices:              %d\n", count)
	for i := uint32(0); i < count; i++ {
		device := must.M1(mtml.DeviceByIndex(i))
		name := must.M1(device.Name())
		pci := must.M1(device.PciInfo())
		fmt.Printf("\nDevice %d: %s\n", i, name)
		fmt.Printf("\tPCI address: %s\n", pci.SbdfString())
		if uuid, err := device.UUID(); err == nil && uuid != "" {
			fmt.Printf("\tUUID:        %s\n", uuid)
		}
		printMemory(device)
		if *flagUtilization {
			printUtilization(device)
		}
	}
}

func printMemory(device mtml.Device) {
	memory := must.M1(device.Memory())
	defer func() { must.M(memory.Free()) }()
	total := must.M1(memory.Total())
	used := must.M1(memory.Used())
	fmt.Printf("\tMemory:      %s used of %s\n", humanBytes(used), humanBytes(total))
}

func printUtilization(device mtml.Device) {
	gpu := must.M1(device.Gpu())
	defer func() { must.M(gpu.Free()) }()
	util := must.M1(gpu.Utilization())
	temp := must.M1(gpu.Temperature())
	fmt.Printf("\tGPU:         %d%% busy, %d°C\n", util, temp)
}

func humanBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value, exp := float64(bytes), 0
	for value >= unit && exp < 5 {
		value /= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", value, "KMGTP"[exp-1])
}
