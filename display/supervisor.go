package zonetone

import (
	"sync"
)

// DrainSupervisor consumes the bridge fan-out channel and feeds the
// View. The bridge blocks briefly when this side lags; the drain keeps
// that window small.
type DrainSupervisor struct {
	View     *View
	StopChan chan struct{}
	WG       sync.WaitGroup
}

// NewDrainSupervisor is a wrapper around the View that manages the
// drain goroutine. They are strongly coupled, one knows about the other.
func (v *View) NewDrainSupervisor() *DrainSupervisor {
	ds := &DrainSupervisor{
		View: v,
	}
	v.Supervisor = ds
	return ds
}

// Start the DrainSupervisor
func (d *DrainSupervisor) Start() {
	d.StopChan = make(chan struct{})

	d.WG.Add(1)
	go func() {
		defer d.WG.Done()

		samples := d.View.Bridge.Samples
		for {
			select {
			case s, ok := <-samples:
				if !ok {
					return
				}
				d.View.RecordSample(s)
				d.View.Stats.SamplesProcessed.Inc()
			case <-d.StopChan:
				return
			}
		}
	}()
}

// Stop the DrainSupervisor
func (d *DrainSupervisor) Stop() {
	if d.StopChan != nil {
		close(d.StopChan)
		d.WG.Wait()
	}
}

// Restart the DrainSupervisor
func (d *DrainSupervisor) Restart() {
	d.Stop()
	d.Start()
}
