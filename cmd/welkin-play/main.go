package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/welkin-audio/welkin"
	"github.com/welkin-audio/welkin/cmd"
	"github.com/welkin-audio/welkin/oto"
	"github.com/welkin-audio/welkin/player"
	"github.com/welkin-audio/welkin/synth"
	"github.com/welkin-audio/welkin/version"
)

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the patch file is.")
	play := flag.Bool("p", false, "Play the demo melody with the input patches (default behaviour when no other output is defined).")
	rawOut := flag.Bool("r", false, "Output the rendered audio as .raw file. By default, saves stereo float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the rendered audio as .wav file. By default, saves stereo float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	voices := flag.Int("n", 8, "Number of voices in the synthesizer.")
	sampleRate := flag.Int("sr", welkin.DefaultSampleRate, "Sample rate in Hz.")
	midiPrefix := flag.String("m", "", "Play live from the first MIDI input whose name starts with this prefix, instead of the demo melody.")
	midiFirst := flag.Bool("M", false, "Play live from the first available MIDI input, instead of the demo melody.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play
	}
	live := *midiPrefix != "" || *midiFirst
	var audioContext welkin.AudioContext
	if *play || live {
		var err error
		audioContext, err = oto.NewContext(*sampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
	}
	process := func(filename string) error {
		patch := welkin.DefaultPatch()
		if filename != "" {
			inputBytes, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("could not read file %v: %v", filename, err)
			}
			if patch, err = welkin.ParsePatch(inputBytes); err != nil {
				return err
			}
		}
		synthesizer := synth.NewPatchSynthesizer(patch, *voices)
		synthesizer.SetSampleRate(*sampleRate)
		if live {
			return playLive(audioContext, synthesizer, *midiPrefix, *midiFirst, *sampleRate)
		}
		buffer, err := player.Render(synthesizer, demoMelody(*sampleRate), 2**sampleRate)
		if err != nil {
			return fmt.Errorf("rendering failed: %v", err)
		}
		var playWaiter welkin.CloserWaiter
		if *play {
			playWaiter = audioContext.Play(buffer.Source())
		}
		if *rawOut {
			raw, err := buffer.Raw(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(filename, patch.Name, ".raw", raw, *stdout, *directory); err != nil {
				return fmt.Errorf("error outputting .raw file: %v", err)
			}
		}
		if *wavOut {
			wav, err := buffer.Wav(*sampleRate, *pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(filename, patch.Name, ".wav", wav, *stdout, *directory); err != nil {
				return fmt.Errorf("error outputting .wav file: %v", err)
			}
		}
		if *play {
			playWaiter.Wait()
		}
		return nil
	}
	files := flag.Args()
	if len(files) == 0 {
		files = []string{""} // no patch file means the default patch
	}
	retval := 0
	for _, file := range files {
		if err := process(file); err != nil {
			fmt.Fprintf(os.Stderr, "could not process %v: %v\n", file, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

// playLive streams audio from the synth, feeding it events from a MIDI
// input, until interrupted.
func playLive(audioContext welkin.AudioContext, synthesizer welkin.Synth, prefix string, takeFirst bool, sampleRate int) error {
	midiContext := cmd.NewMidiContext(sampleRate)
	defer midiContext.Close()
	if err := midiContext.TryToOpenBy(prefix, takeFirst); err != nil {
		return err
	}
	stream := player.NewStream(player.NewPlayer(synthesizer), midiContext)
	playWaiter := audioContext.Play(stream)
	defer playWaiter.Close()
	fmt.Fprintln(os.Stderr, "playing; press ctrl-c to quit")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	return nil
}

// demoMelody is a short four-note arpeggio with overlapping notes, so voice
// allocation gets exercised.
func demoMelody(sampleRate int) []player.NoteEvent {
	quarter := sampleRate / 2
	var events []player.NoteEvent
	for i, key := range []byte{60, 64, 67, 72} {
		events = append(events,
			player.NoteEvent{Frame: i * quarter, On: true, Key: key, Velocity: 100},
			player.NoteEvent{Frame: (i + 2) * quarter, On: false, Key: key},
		)
	}
	return events
}

func output(filename, patchName, extension string, contents []byte, stdout bool, directory string) error {
	if stdout {
		os.Stdout.Write(contents)
		return nil
	}
	name := patchName
	if filename != "" {
		_, name = filepath.Split(filename)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	dir := directory
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
		}
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %v", dir, err)
	}
	f := filepath.Join(dir, name+extension)
	if err := os.WriteFile(f, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", f, err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Welkin command line utility for playing .yml patch files.\nUsage: %s [flags] [patch ...]\n", os.Args[0])
	flag.PrintDefaults()
}
