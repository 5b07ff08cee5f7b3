// Command speak is a terminal frontend for the synthesis gateway: it
// applies presets, submits a script and saves (optionally plays) the
// generated clip.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/script2sound/script2sound/internal/audio"
	"github.com/script2sound/script2sound/internal/client"
	"github.com/script2sound/script2sound/internal/player"
	"github.com/script2sound/script2sound/internal/presets"
	"github.com/script2sound/script2sound/internal/tts"
)

func main() {
	_ = godotenv.Load()

	var (
		server     = flag.String("server", envOr("SPEAK_SERVER", "http://localhost:8080"), "gateway base URL")
		text       = flag.String("text", "", "script text to synthesize")
		file       = flag.String("file", "", "read the script from a file instead of -text")
		voice      = flag.String("voice", "", "voice name (gateway default when empty)")
		lang       = flag.String("lang", "", "language code (gateway default when empty)")
		rate       = flag.Float64("rate", 1.0, "speaking rate (0.5-2.0)")
		pitch      = flag.Float64("pitch", 0.0, "pitch (-10.0-10.0)")
		ssml       = flag.Bool("ssml", false, "treat the script as SSML markup")
		preset     = flag.String("preset", "", "apply a named preset (explicit flags still win)")
		out        = flag.String("out", "generated_audio.mp3", "output file for the MP3 clip")
		play       = flag.Bool("play", false, "play the clip after generating it")
		listVoices = flag.Bool("voices", false, "list available voices and exit")
	)
	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	logger := log.New(os.Stderr, "", 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*server)

	if *listVoices {
		if err := printVoices(ctx, c, *lang); err != nil {
			logger.Fatalf("list voices: %v", err)
		}
		return
	}

	script := *text
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			logger.Fatalf("read script: %v", err)
		}
		script = string(b)
	}
	if script == "" {
		logger.Fatal("nothing to synthesize: pass -text or -file")
	}

	req := tts.Request{
		Text:         script,
		VoiceName:    *voice,
		LanguageCode: *lang,
		SpeakingRate: *rate,
		Pitch:        *pitch,
		IsSSML:       *ssml,
	}
	if *preset != "" {
		if err := applyPreset(ctx, c, *preset, &req, setFlags); err != nil {
			logger.Fatalf("apply preset: %v", err)
		}
	}

	session := client.NewSession()
	session.Begin()

	clip, err := c.GenerateAudio(ctx, req)
	if err != nil {
		session.Fail(err)
		logger.Fatalf("%s", failureMessage(err))
	}
	session.Complete(clip)

	if err := os.WriteFile(*out, session.Artifact(), 0o644); err != nil {
		logger.Fatalf("write %s: %v", *out, err)
	}

	if ms, err := audio.DurationMS(clip); err == nil {
		fmt.Printf("wrote %s (%d bytes, %.1fs)\n", *out, len(clip), float64(ms)/1000)
	} else {
		fmt.Printf("wrote %s (%d bytes)\n", *out, len(clip))
	}

	if *play {
		if err := player.Play(ctx, session.Artifact()); err != nil && ctx.Err() == nil {
			logger.Fatalf("playback: %v", err)
		}
	}
}

// applyPreset fills request fields from a gateway preset; flags the user
// set explicitly keep their values.
func applyPreset(ctx context.Context, c *client.Client, name string, req *tts.Request, setFlags map[string]bool) error {
	list, err := c.Presets(ctx)
	if err != nil {
		return err
	}
	p, ok := presets.ByName(list, name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	mergePreset(req, p, setFlags)
	return nil
}

// mergePreset copies preset values into the request for every field the
// user did not set on the command line.
func mergePreset(req *tts.Request, p presets.Preset, setFlags map[string]bool) {
	if req.VoiceName == "" {
		req.VoiceName = p.VoiceName
	}
	if req.LanguageCode == "" {
		req.LanguageCode = p.LanguageCode
	}
	if !setFlags["rate"] {
		req.SpeakingRate = p.SpeakingRate
	}
	if !setFlags["pitch"] {
		req.Pitch = p.Pitch
	}
}

func printVoices(ctx context.Context, c *client.Client, lang string) error {
	voices, err := c.Voices(ctx, lang)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLANGUAGE\tGENDER\tSAMPLE RATE")
	for _, v := range voices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", v.Name, v.LanguageCode, v.Gender, v.NaturalSampleRate)
	}
	return tw.Flush()
}

// failureMessage keeps the taxonomy visible to the user: validation
// errors verbatim, provider trouble as a retry suggestion.
func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Invalid() {
			return "invalid request: " + apiErr.Detail
		}
		if apiErr.Detail != "" {
			return fmt.Sprintf("generation failed (%s): %s, try again", apiErr.Tag, apiErr.Detail)
		}
	}
	return fmt.Sprintf("generation failed: %v, try again", err)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
