package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Wake-gate tuning. The detector only has to answer "is a hand
// plausibly moving in view", so frames are shrunk to a small working
// width before differencing to keep the per-frame cost negligible at
// idle rates.
const (
	// wakeWorkingWidth is the width frames are downscaled to before
	// differencing.
	wakeWorkingWidth = 160
	// wakeBlurKernel is the Gaussian kernel applied before differencing
	// so sensor noise and compression artifacts do not read as motion.
	wakeBlurKernel = 15
	// wakePixelDelta is the per-pixel gray delta that counts as changed.
	wakePixelDelta = 20
)

// MotionDetector is the wake gate for the capture pipeline. It compares
// each frame against the previous one and reports the percentage of
// pixels that changed; the pipeline uses the verdict to switch between
// idle and active frame rates, so hand tracking only pays full camera
// cost while something is actually moving in front of the lens.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	baseline  gocv.Mat
	primed    bool
}

// NewMotionDetector creates a wake gate that reports motion when more
// than threshold percent of the downscaled pixels change between
// consecutive frames.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Detect compares frame against the previous one and reports whether
// enough of the image changed to count as motion, along with the
// changed-pixel percentage. The first frame after construction or Reset
// primes the baseline and never reports motion, so waking the camera
// cannot retrigger itself.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	prepared := m.prepare(frame)
	defer prepared.Close()

	if !m.primed {
		prepared.CopyTo(&m.baseline)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(prepared, m.baseline, &diff)

	changed := gocv.NewMat()
	defer changed.Close()
	gocv.Threshold(diff, &changed, wakePixelDelta, 255, gocv.ThresholdBinary)

	total := changed.Rows() * changed.Cols()
	percent := float64(gocv.CountNonZero(changed)) / float64(total) * 100.0

	prepared.CopyTo(&m.baseline)

	return percent > m.threshold, percent
}

// prepare downscales, grays, and blurs a frame into the form the
// differencing runs on.
func (m *MotionDetector) prepare(frame *gocv.Mat) gocv.Mat {
	small := gocv.NewMat()
	if frame.Cols() > wakeWorkingWidth {
		scale := float64(wakeWorkingWidth) / float64(frame.Cols())
		gocv.Resize(*frame, &small, image.Point{}, scale, scale, gocv.InterpolationArea)
	} else {
		frame.CopyTo(&small)
	}

	gray := gocv.NewMat()
	if small.Channels() > 1 {
		gocv.CvtColor(small, &gray, gocv.ColorBGRToGray)
		small.Close()
	} else {
		gray = small
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: wakeBlurKernel, Y: wakeBlurKernel}, 0, 0, gocv.BorderDefault)
	gray.Close()

	return blurred
}

// Reset drops the baseline so the next frame primes a fresh one. Called
// when the camera reopens and the old baseline no longer matches the
// scene.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropBaseline()
}

// Close releases the baseline frame. The detector re-primes itself if
// used again afterwards.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropBaseline()
}

func (m *MotionDetector) dropBaseline() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}

// SetThreshold changes the changed-pixel percentage that counts as
// motion. Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}
