package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nasa-jpl/golab-ueye/generichttp"
	"github.com/nasa-jpl/golab-ueye/generichttp/camera"
	"github.com/nasa-jpl/golab-ueye/imgrec"
	"github.com/nasa-jpl/golab-ueye/server"
	"github.com/nasa-jpl/golab-ueye/server/middleware/locker"
	"github.com/nasa-jpl/golab-ueye/ueye"

	"github.com/go-chi/chi"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/theckman/yacspin"
	"go.uber.org/zap"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "ueye-http.yml"
	k              = koanf.New(".")
)

type recorder struct {
	// Root is the root folder to write to
	Root string `yaml:"Root" koanf:"Root"`

	// Prefix is the filename prefix to use
	Prefix string `yaml:"Prefix" koanf:"Prefix"`

	// Enabled turns on writing of every FITS frame served
	Enabled bool `yaml:"Enabled" koanf:"Enabled"`
}

type config struct {
	Addr        string        `yaml:"Addr" koanf:"Addr"`
	Root        string        `yaml:"Root" koanf:"Root"`
	Driver      string        `yaml:"Driver" koanf:"Driver"`
	DeviceID    int           `yaml:"DeviceID" koanf:"DeviceID"`
	BufferCount int           `yaml:"BufferCount" koanf:"BufferCount"`
	Debug       bool          `yaml:"Debug" koanf:"Debug"`
	Recorder    recorder      `yaml:"Recorder" koanf:"Recorder"`
	Bootup      ueye.Settings `yaml:"Bootup" koanf:"Bootup"`
}

func setupconfig() {
	k.Load(structs.Provider(config{
		Addr:        ":8000",
		Root:        "/",
		Driver:      "sdk",
		DeviceID:    0,
		BufferCount: ueye.DefaultBufferCount,
		Recorder:    recorder{Prefix: "ueye"},
		Bootup: ueye.Settings{
			ColorMode: "MONO8",
		}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `ueye-http exposes control of IDS uEye cameras over HTTP
This enables a server-client architecture,
and the clients can leverage the excellent HTTP
libraries for any programming language,
instead of custom socket logic.

Usage:
	ueye-http <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `ueye-http is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used.  Keys are not case-sensitive.
The command mkconf generates the configuration file with the default values.
There is no need to do this unless you want to start from the prepopulated defaults when making
a config file.

Driver selects the camera driver, sdk for a real camera through libueye_api, or sim for
a software camera which produces a moving test pattern.  The sdk driver is only available
when ueye-http is built with -tags ueye.

DeviceID 0 opens the first available camera.  BufferCount is the number of frames in the
capture ring.

The Bootup section is applied once the camera is open.  Zero values leave the camera's own
defaults in place, and AutoExposure and AutoGain are only switched when set.  If there is an error during server bootup, it may be that a feature is
not supported by the camera.  Modify the Bootup portion of the config to remove the
offending parameters.

If another process holds the camera, ueye-http retries for a few seconds before giving up.

Debug turns on development logging, which includes debug messages and is easier to read.

If the files and folders created do not have the permissions you want on linux,
your umask is likely to blame.`
	fmt.Println(str)
}

func mkconf() {
	c := config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	err = yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("ueye-http version %v\n", Version)
}

func newLogger(debug bool) *zap.SugaredLogger {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	return l.Sugar()
}

func newSpinner(msg string) *yacspin.Spinner {
	spinner, err := yacspin.New(yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[11],
		Suffix:            " ",
		Message:           msg,
		StopCharacter:     "✓",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "✗",
		StopFailColors:    []string{"fgRed"},
	})
	if err != nil {
		log.Fatal(err)
	}
	return spinner
}

func run() {
	cfg := config{}
	k.Unmarshal("", &cfg)
	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	drv, err := newDriver(cfg.Driver)
	if err != nil {
		logger.Fatal(err)
	}
	c := ueye.New(drv, ueye.Config{
		DeviceID:    cfg.DeviceID,
		BufferCount: cfg.BufferCount,
		Logger:      logger.With("device", cfg.DeviceID),
	})

	spinner := newSpinner("opening camera")
	spinner.Start()
	err = openWithRetry(c, openBackOff(), logger)
	if err != nil {
		spinner.StopFailMessage(err.Error())
		spinner.StopFail()
		logger.Fatalw("could not open camera", "err", err)
	}
	defer c.Close()
	spinner.Message("applying bootup settings")
	err = c.Configure(cfg.Bootup)
	if err != nil {
		spinner.StopFailMessage(err.Error())
		spinner.StopFail()
		logger.Fatalw("could not apply bootup settings", "err", err)
	}
	sensor, err := c.SensorInfo()
	if err != nil {
		spinner.StopFail()
		logger.Fatal(err)
	}
	spinner.StopMessage(fmt.Sprintf("connected to %s", sensor.Name))
	spinner.Stop()
	logger.Infow("camera open", "sensor", sensor.Name,
		"width", sensor.MaxWidth, "height", sensor.MaxHeight, "color", sensor.Color)

	args := cfg.Recorder
	r := imgrec.New(args.Root, args.Prefix, args.Enabled)
	w := camera.NewHTTPCamera(c, r, logger)
	lock := locker.New()
	locker.Inject(w, lock)

	// clean up the submux string
	hndlrS := cfg.Root
	hndlrS = generichttp.SubMuxSanitize(hndlrS)
	root := chi.NewRouter()
	root.Use(server.Logger(logger))
	root.Handle("/metrics", promhttp.Handler())
	mux := chi.NewRouter()
	mux.Use(lock.Check)
	root.Mount(hndlrS, mux)
	w.RT().Bind(mux)
	addr := cfg.Addr + cfg.Root
	logger.Infow("now listening for requests", "addr", addr)
	err = http.ListenAndServe(cfg.Addr, root)
	logger.Errorw("server stopped", "err", err)
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "run":
		run()
		return
	case "version":
		pversion()
		return
	default:
		log.Fatal("unknown command")
	}
}
