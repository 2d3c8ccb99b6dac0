package notes

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// completionTicket is an opaque handle signaled when one pass submission has
// finished executing on the accelerator.
type completionTicket interface {
	// Wait blocks until the submission completes. A non-nil error means the
	// accelerator reported the work as not successfully finished.
	Wait() error
}

// gpuTicket waits on queue completion by polling the device until the
// work-done callback registered at submission time has been delivered.
type gpuTicket struct {
	device *wgpu.Device
	status chan wgpu.QueueWorkDoneStatus
}

func (t *gpuTicket) Wait() error {
	for {
		select {
		case st := <-t.status:
			if st != wgpu.QueueWorkDoneStatusSuccess {
				return fmt.Errorf("submission finished with status %v", st)
			}
			return nil
		default:
		}
		// Blocking poll pumps the callback queue until the work completes.
		t.device.Poll(true, nil)
	}
}
