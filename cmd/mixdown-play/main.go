// mixdown-play loads one or more stems, applies an optional mix file and
// plays them through the default output device, printing the transport
// position and master level while running.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mixdown"
	"mixdown/decode"
	"mixdown/engine"
	"mixdown/oto"
	"mixdown/version"
)

type mixFile struct {
	Master struct {
		Volume  *float64 `yaml:"volume"`
		Limiter *float64 `yaml:"limiter"`
	} `yaml:"master"`
	Tempo  float64 `yaml:"tempo"`
	Tracks []struct {
		Name   string   `yaml:"name"`
		Class  string   `yaml:"class"`
		Volume *float64 `yaml:"volume"`
		Pan    *float64 `yaml:"pan"`
		Mute   bool     `yaml:"mute"`
		Solo   bool     `yaml:"solo"`
	} `yaml:"tracks"`
}

func main() {
	mixPath := flag.String("m", "", "Mix file (yaml) with per-stem volume/pan/mute/solo and master settings.")
	from := flag.Float64("from", 0, "Start playing from this position, in seconds.")
	loopStart := flag.Float64("loop-start", 0, "Loop region start, in seconds.")
	loopEnd := flag.Float64("loop-end", 0, "Loop region end, in seconds; 0 disables looping.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	var mix mixFile
	if *mixPath != "" {
		data, err := os.ReadFile(*mixPath)
		if err == nil {
			err = yaml.Unmarshal(data, &mix)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read mix file: %v\n", err)
			os.Exit(1)
		}
	}

	audio, err := oto.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not acquire audio output: %v\n", err)
		os.Exit(1)
	}
	broker := engine.NewBroker()
	mixer := engine.NewMixer(broker)
	model, err := engine.NewModel(broker, mixer, audio, engine.NewTicker(engine.DisplayRefresh))
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start engine: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	tasks := make([]*engine.LoadTask, 0, flag.NArg())
	for _, path := range flag.Args() {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		tasks = append(tasks, model.LoadTrack(name, stemClassFor(&mix, name), decode.FileSource{Path: path}))
	}
	for model.PendingLoads() > 0 {
		<-model.Tick()
		model.Update()
	}
	failed := false
	for _, task := range tasks {
		if _, err := task.Result(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}

	applyMix(model, &mix)
	if *loopEnd > *loopStart {
		model.SetLoopRegion(&mixdown.LoopRegion{Start: *loopStart, End: *loopEnd})
	}
	if err := model.PlayFrom(*from); err != nil {
		fmt.Fprintf(os.Stderr, "could not start playback: %v\n", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	end := longestExtent(model)
	for {
		select {
		case <-interrupt:
			model.Stop()
			fmt.Println()
			return
		case <-model.Tick():
			model.Update()
			state := model.TransportState()
			level := model.MasterLevel()
			fmt.Printf("\r%7.2fs  peak %4.2f  rms %4.2f", state.CurrentTime, level.Peak, level.RMS)
			if state.Loop == nil && state.CurrentTime >= end {
				model.Stop()
				fmt.Println()
				return
			}
		}
	}
}

func stemClassFor(mix *mixFile, name string) mixdown.StemClass {
	for _, t := range mix.Tracks {
		if t.Name == name {
			return mixdown.ParseStemClass(t.Class)
		}
	}
	return mixdown.StemOther
}

func applyMix(model *engine.Model, mix *mixFile) {
	if mix.Master.Volume != nil {
		model.SetMasterVolume(*mix.Master.Volume)
	}
	if mix.Master.Limiter != nil {
		model.SetLimiterCeiling(*mix.Master.Limiter)
	}
	if mix.Tempo > 0 {
		model.SetTempo(mix.Tempo)
	}
	for _, track := range model.Tracks() {
		for _, t := range mix.Tracks {
			if t.Name != track.Name {
				continue
			}
			if t.Volume != nil {
				model.SetVolume(track.ID, *t.Volume)
			}
			if t.Pan != nil {
				model.SetPan(track.ID, *t.Pan)
			}
			if t.Mute {
				model.SetMuted(track.ID, true)
			}
			if t.Solo {
				model.SetSoloed(track.ID, true)
			}
		}
	}
}

func longestExtent(model *engine.Model) float64 {
	var ret float64
	for _, t := range model.Tracks() {
		if e := t.Extent(); e > ret {
			ret = e
		}
	}
	return ret
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] stem1.wav [stem2.mp3 ...]\n", os.Args[0])
	flag.PrintDefaults()
}
