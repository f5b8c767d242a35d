// Package imgrec contains an image recorder used to automatically save images to disk.
package imgrec

import (
	"encoding/json"
	"fmt"
	"go/types"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nasa-jpl/golab-ueye/generichttp"
	"github.com/pkg/errors"
)

// Recorder records image sequences with incrementing filenames in yyyy-mm-dd
// subfolders.  It is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	// counter is the number of the file currently written
	counter int

	root    string
	prefix  string
	enabled bool

	// now is the clock used to pick the dated folder
	now func() time.Time
}

// New returns a recorder writing under root with the given filename prefix
func New(root, prefix string, enabled bool) *Recorder {
	return &Recorder{root: root, prefix: prefix, enabled: enabled, now: time.Now}
}

// Root is the root folder
func (r *Recorder) Root() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// SetRoot changes the root folder, creating today's folder under it
func (r *Recorder) SetRoot(root string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.root = root
	r.counter = 0
	_, err := r.mkDir()
	return err
}

// Prefix is the filename prefix
func (r *Recorder) Prefix() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefix
}

// SetPrefix changes the filename prefix and restarts the counter
func (r *Recorder) SetPrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefix = prefix
	r.counter = 0
}

// Enabled is true when consumers should tee their images to the recorder
func (r *Recorder) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// SetEnabled turns the recorder on or off
func (r *Recorder) SetEnabled(b bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = b
}

// Active is true if the recorder is enabled and has somewhere to write
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled && r.root != ""
}

// folder is the dated subfolder for the current time
func (r *Recorder) folder() string {
	y, m, d := r.now().Date()
	return filepath.Join(r.root, fmt.Sprintf("%04d-%02d-%02d", y, m, d))
}

// mkDir makes the folder and returns it
func (r *Recorder) mkDir() (string, error) {
	fldr := r.folder()
	err := os.MkdirAll(fldr, 0777)
	return fldr, err
}

// Path is the file the next Write goes to
func (r *Recorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path()
}

func (r *Recorder) path() string {
	return filepath.Join(r.folder(), fmt.Sprintf("%s%06d.fits", r.prefix, r.counter))
}

// Write implements io.Writer and appends to the current file
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.mkDir(); err != nil {
		return 0, err
	}
	fid, err := os.OpenFile(r.path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return 0, err
	}
	defer fid.Close()
	return fid.Write(p)
}

// Incr moves the counter past the highest numbered file in the folder.
// If the folder cannot be read the counter is not moved.
func (r *Recorder) Incr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dn, err := r.mkDir()
	if err != nil {
		return err
	}
	files, err := os.ReadDir(dn)
	if err != nil {
		return errors.Wrap(err, "scanning recorder folder")
	}
	count := -1
	for _, file := range files {
		fn := file.Name()
		if file.IsDir() || !strings.HasSuffix(fn, ".fits") || !strings.HasPrefix(fn, r.prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(fn, r.prefix), ".fits"))
		if err != nil {
			continue
		}
		if n > count {
			count = n
		}
	}
	r.counter = count + 1
	return nil
}

// HTTPWrapper is an HTTP wrapper around an image recorder that allows the folder and prefix to be changed on the fly
//
// it does not implement generichttp.HTTPer, offering an Inject method allowing it to be injected
// into another HTTPer
type HTTPWrapper struct {
	*Recorder
}

// NewHTTPWrapper returns an HTTP wrapper around a recorder
func NewHTTPWrapper(r *Recorder) HTTPWrapper {
	return HTTPWrapper{r}
}

// HTTPSetRoot updates the root folder of the recorder
func (h HTTPWrapper) HTTPSetRoot(w http.ResponseWriter, r *http.Request) {
	str := generichttp.StrT{}
	err := json.NewDecoder(r.Body).Decode(&str)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err = h.Recorder.SetRoot(str.Str); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HTTPGetRoot gets the recorder's root folder and sends it back as JSON
func (h HTTPWrapper) HTTPGetRoot(w http.ResponseWriter, r *http.Request) {
	hp := generichttp.HumanPayload{T: types.String, String: h.Recorder.Root()}
	hp.EncodeAndRespond(w, r)
}

// HTTPSetPrefix updates the filename prefix of the recorder
func (h HTTPWrapper) HTTPSetPrefix(w http.ResponseWriter, r *http.Request) {
	str := generichttp.StrT{}
	err := json.NewDecoder(r.Body).Decode(&str)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Recorder.SetPrefix(str.Str)
	w.WriteHeader(http.StatusOK)
}

// HTTPGetPrefix gets the recorder's prefix and sends it back as JSON
func (h HTTPWrapper) HTTPGetPrefix(w http.ResponseWriter, r *http.Request) {
	hp := generichttp.HumanPayload{T: types.String, String: h.Recorder.Prefix()}
	hp.EncodeAndRespond(w, r)
}

// HTTPGetEnabled returns whether the recorder is enabled
func (h HTTPWrapper) HTTPGetEnabled(w http.ResponseWriter, r *http.Request) {
	hp := generichttp.HumanPayload{T: types.Bool, Bool: h.Recorder.Enabled()}
	hp.EncodeAndRespond(w, r)
}

// HTTPSetEnabled enables or disables the recorder
func (h HTTPWrapper) HTTPSetEnabled(w http.ResponseWriter, r *http.Request) {
	bT := generichttp.BoolT{}
	err := json.NewDecoder(r.Body).Decode(&bT)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Recorder.SetEnabled(bT.Bool)
	w.WriteHeader(http.StatusOK)
}

// Inject adds GET and POST routes for /autowrite/root, /autowrite/prefix and
// /autowrite/enabled to the HTTPer which manipulate this wrapper's recorder
func (h HTTPWrapper) Inject(other generichttp.HTTPer) {
	rt := other.RT()
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/autowrite/root"}] = h.HTTPSetRoot
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/autowrite/root"}] = h.HTTPGetRoot
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/autowrite/prefix"}] = h.HTTPSetPrefix
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/autowrite/prefix"}] = h.HTTPGetPrefix
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/autowrite/enabled"}] = h.HTTPSetEnabled
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/autowrite/enabled"}] = h.HTTPGetEnabled
}
