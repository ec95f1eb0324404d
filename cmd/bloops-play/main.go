package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bloopsaphone/bloops"
	"github.com/bloopsaphone/bloops/meter"
	"github.com/bloopsaphone/bloops/notation"
	"github.com/bloopsaphone/bloops/oto"
	"github.com/bloopsaphone/bloops/synth"
	"github.com/bloopsaphone/bloops/version"
)

type namedSong struct {
	Name string
	Song *bloops.Song
}

func main() {
	var (
		tune, preset          string
		tempo, rate           int
		info, list, mix, help bool
		midiFlag, versionFlag bool
	)
	pflag.StringVarP(&tune, "tune", "t", "", "Play a tune written in the notation, e.g. \"8C E G +C\".")
	pflag.StringVarP(&preset, "preset", "p", "square", "Instrument preset for --tune.")
	pflag.IntVar(&tempo, "tempo", bloops.DefaultTempo, "Tempo of --tune in beats per minute.")
	pflag.IntVarP(&rate, "rate", "r", 44100, "Sample rate of the output.")
	pflag.BoolVarP(&info, "info", "i", false, "Print a summary of the songs instead of playing them.")
	pflag.BoolVarP(&list, "list", "l", false, "List the built-in instrument presets.")
	pflag.BoolVar(&midiFlag, "midi", false, "Print the MIDI note messages of the songs instead of playing them.")
	pflag.BoolVarP(&mix, "mix", "m", false, "Play all the songs at the same time.")
	pflag.BoolVarP(&versionFlag, "version", "v", false, "Print version.")
	pflag.BoolVarP(&help, "help", "h", false, "Show help.")
	pflag.Usage = printUsage
	pflag.Parse()

	logger := log.New(os.Stderr, "", log.Ldate|log.Ltime)
	if versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if list {
		for _, name := range bloops.PresetNames() {
			p, _ := bloops.Preset(name)
			fmt.Printf("%-12s %v\n", name, p.Type)
		}
		os.Exit(0)
	}
	if help || (tune == "" && pflag.NArg() == 0) {
		pflag.Usage()
		os.Exit(0)
	}

	retval := 0
	var songs []namedSong
	if tune != "" {
		songs = append(songs, namedSong{Name: "--tune", Song: &bloops.Song{
			Tempo:  tempo,
			Tracks: []bloops.SongTrack{{Preset: preset, Notation: tune}},
		}})
	}
	for _, file := range expandPaths(pflag.Args(), logger) {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Printf("could not read file %v: %v", file, err)
			retval = 1
			continue
		}
		song, err := bloops.ReadSong(data)
		if err != nil {
			logger.Printf("could not read song %v: %v", file, err)
			retval = 1
			continue
		}
		songs = append(songs, namedSong{Name: file, Song: &song})
	}

	if info {
		for _, s := range songs {
			if err := printInfo(os.Stdout, s); err != nil {
				logger.Printf("could not print info of %v: %v", s.Name, err)
				retval = 1
			}
		}
		os.Exit(retval)
	}
	if midiFlag {
		for _, s := range songs {
			if err := printMIDI(os.Stdout, s, rate); err != nil {
				logger.Printf("could not print MIDI of %v: %v", s.Name, err)
				retval = 1
			}
		}
		os.Exit(retval)
	}

	var compositions []*synth.Composition
	var names []string
	for _, s := range songs {
		for i, t := range s.Song.Tracks {
			if err := notation.Validate(t.Notation); err != nil {
				logger.Printf("%v: track %d: %v; the rest of the track is ignored", s.Name, i, err)
			}
		}
		c, err := synth.Compose(*s.Song)
		if err != nil {
			logger.Printf("%v: %v", s.Name, err)
			retval = 1
			continue
		}
		compositions = append(compositions, c)
		names = append(names, s.Name)
	}
	if len(compositions) == 0 {
		os.Exit(retval)
	}

	audioContext, err := oto.NewContext(rate)
	if err != nil {
		logger.Fatalf("could not acquire oto AudioContext: %v", err)
	}
	mixer := synth.NewMixer()
	tap := &meter.Tap{Source: mixer, Detector: meter.NewDetector(true)}
	play := func() {
		w := audioContext.Play(tap)
		w.Wait()
		if err := w.Close(); err != nil {
			logger.Printf("%v", err)
		}
		logger.Printf("finished, %v", tap.Detector.Result())
		tap.Detector.Reset()
	}
	if mix {
		for _, c := range compositions {
			if _, ok := mixer.Play(c); !ok {
				logger.Printf("all %d channels are busy, skipping a song", synth.MaxChannels)
			}
		}
		play()
	} else {
		for i, c := range compositions {
			logger.Printf("playing %v", names[i])
			mixer.Play(c)
			play()
		}
	}
	audioContext.Close()
	os.Exit(retval)
}

// expandPaths replaces directories with the song files in them.
func expandPaths(args []string, logger *log.Logger) []string {
	var ret []string
	for _, param := range args {
		info, err := os.Stat(param)
		if err != nil || !info.IsDir() {
			ret = append(ret, param)
			continue
		}
		for _, pattern := range []string{"*.yml", "*.yaml", "*.json"} {
			files, err := filepath.Glob(filepath.Join(param, pattern))
			if err != nil {
				logger.Printf("could not glob the path %v for %v files: %v", param, strings.TrimPrefix(pattern, "*."), err)
				continue
			}
			ret = append(ret, files...)
		}
	}
	return ret
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Plays tunes and .yml/.json song files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	pflag.PrintDefaults()
}
