package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/li20034/mono-sense-hat/internal/images"
	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/li20034/mono-sense-hat/internal/srv"
	"github.com/li20034/mono-sense-hat/internal/srv/device"
	"github.com/li20034/mono-sense-hat/internal/version"
	"github.com/sirupsen/logrus"
)

const configSuffix = "sensehat"

func main() {

	// Logger
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mainCommand := filepath.Base(os.Args[0])

	// region Flags and Commands definition

	// Debug Mode
	debugMode := flag.Bool("d", false, "Enable debug mode")

	// Simulation Mode
	simulationMode := flag.Bool("s", false, "Enable simulation mode (terminal display)")

	// User config dir
	defaultConfigDir := "./." + configSuffix
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		defaultConfigDir = filepath.Join(userConfigDir, configSuffix)
	}
	configDir := flag.String("c", defaultConfigDir, "Location of sensehat config folder")

	// Usage
	flag.Usage = func() {
		fmt.Printf("\nUsage: %s [OPTIONS] [COMMAND]\n", mainCommand)
		fmt.Printf("\nSense HAT LED matrix server\n")
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  run       Run server\n")
		fmt.Printf("  letter    Show a letter\n")
		fmt.Printf("  message   Scroll a message\n")
		fmt.Printf("  image     Show an image file\n")
		fmt.Printf("  fill      Fill the matrix with a color\n")
		fmt.Printf("  clear     Turn every LED off\n")
		fmt.Printf("  version   Show the version number\n")
		fmt.Printf("\nRun '%s COMMAND --help' for more information on a command.\n", mainCommand)
	}

	// run command
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	runCmd.Usage = func() {
		fmt.Printf("\nUsage: %s run\n", mainCommand)
		fmt.Printf("\nRun the server\n")
	}

	// letter command
	letterCmd := flag.NewFlagSet("letter", flag.ExitOnError)
	letterColor := letterCmd.String("color", "", "Letter color: #rrggbb, #rgb or 0xNNNN (default from param file)")
	letterHold := letterCmd.Duration("t", 5*time.Second, "How long the letter stays on")
	letterOut := letterCmd.String("o", "", "Also save the frame to a png file")
	letterCmd.Usage = func() {
		fmt.Printf("\nUsage: %s letter [OPTIONS] CHAR\n", mainCommand)
		fmt.Printf("\nShow a single character\n")
		fmt.Printf("\nOptions:\n")
		letterCmd.PrintDefaults()
	}

	// message command
	messageCmd := flag.NewFlagSet("message", flag.ExitOnError)
	messageColor := messageCmd.String("color", "", "Text color: #rrggbb, #rgb or 0xNNNN (default from param file)")
	messageDelay := messageCmd.Duration("delay", 0, "Delay between scroll steps (default from param file)")
	messageCmd.Usage = func() {
		fmt.Printf("\nUsage: %s message [OPTIONS] TEXT\n", mainCommand)
		fmt.Printf("\nScroll a message once from right to left\n")
		fmt.Printf("\nOptions:\n")
		messageCmd.PrintDefaults()
	}

	// image command
	imageCmd := flag.NewFlagSet("image", flag.ExitOnError)
	imageHold := imageCmd.Duration("t", 5*time.Second, "How long the image stays on")
	imageOut := imageCmd.String("o", "", "Also save the frame to a png file")
	imageCmd.Usage = func() {
		fmt.Printf("\nUsage: %s image [OPTIONS] FILE\n", mainCommand)
		fmt.Printf("\nShow an image scaled to 8x8 (png, jpeg, gif, bmp, webp)\n")
		fmt.Printf("\nOptions:\n")
		imageCmd.PrintDefaults()
	}

	// fill command
	fillCmd := flag.NewFlagSet("fill", flag.ExitOnError)
	fillHold := fillCmd.Duration("t", 5*time.Second, "How long the color stays on")
	fillOut := fillCmd.String("o", "", "Also save the frame to a png file")
	fillCmd.Usage = func() {
		fmt.Printf("\nUsage: %s fill [OPTIONS] COLOR\n", mainCommand)
		fmt.Printf("\nLight every LED with COLOR (#rrggbb, #rgb or 0xNNNN)\n")
		fmt.Printf("\nOptions:\n")
		fillCmd.PrintDefaults()
	}

	// clear command
	clearCmd := flag.NewFlagSet("clear", flag.ExitOnError)
	clearCmd.Usage = func() {
		fmt.Printf("\nUsage: %s clear\n", mainCommand)
		fmt.Printf("\nTurn every LED off\n")
	}

	// version command
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)
	versionCmd.Usage = func() {
		fmt.Printf("\nUsage: %s version\n", mainCommand)
		fmt.Printf("\nShow the version information\n")
	}

	// endregion

	// region Flags and Commands Parsing
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	expectArgs := func(cmd *flag.FlagSet, count int) {
		cmd.Parse(flag.Args()[1:])
		if cmd.NArg() != count {
			if count == 0 {
				fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, flag.Arg(0))
			} else {
				fmt.Printf("\n\"%s %s\" requires exactly %d argument\n", mainCommand, flag.Arg(0), count)
			}
			cmd.Usage()
			os.Exit(1)
		}
	}

	switch flag.Arg(0) {
	case "run":
		expectArgs(runCmd, 0)
	case "letter":
		expectArgs(letterCmd, 1)
	case "message":
		expectArgs(messageCmd, 1)
	case "image":
		expectArgs(imageCmd, 1)
	case "fill":
		expectArgs(fillCmd, 1)
	case "clear":
		expectArgs(clearCmd, 0)
	case "version":
		expectArgs(versionCmd, 0)
	default:
		fmt.Printf("\n%s is not a sensehat command\n", flag.Args()[0])
		flag.Usage()
		os.Exit(1)
	}
	// endregion

	if versionCmd.Parsed() {
		fmt.Printf("Version %s\n", version.AppVersion.String())
		return
	}

	if *debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Printf("Debug mode activated")
	}

	// Create sensehat server
	serverApp, err := srv.NewServerApp(*configDir, *debugMode, *simulationMode)
	if err != nil {
		logrus.Fatalf("Unable to create server: %v", err)
	}

	// Listen stop signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer stop()

	if runCmd.Parsed() {
		if err := serverApp.Start(); err != nil {
			logrus.Fatalf("Unable to start server: %v", err)
		}
		<-ctx.Done()
		logrus.Infof("Received stop signal")
		serverApp.Stop()
		return
	}

	var action func(ctx context.Context, m *device.Matrix) error
	switch {
	case letterCmd.Parsed():
		ch := []rune(letterCmd.Arg(0))
		if len(ch) != 1 {
			logrus.Fatalf("%q is not a single character", letterCmd.Arg(0))
		}
		c := textColor(serverApp, *letterColor)
		action = func(ctx context.Context, m *device.Matrix) error {
			if err := m.Text().DrawLetter(ch[0], c); err != nil {
				return err
			}
			return show(ctx, m, *letterOut, *letterHold)
		}
	case messageCmd.Parsed():
		c := textColor(serverApp, *messageColor)
		delay := *messageDelay
		if delay == 0 {
			delay = serverApp.Text.ScrollDelayDuration()
		}
		action = func(ctx context.Context, m *device.Matrix) error {
			return m.Text().ScrollMessage(ctx, messageCmd.Arg(0), c, delay)
		}
	case imageCmd.Parsed():
		img, err := images.Load(imageCmd.Arg(0))
		if err != nil {
			logrus.Fatalf("Unable to load image: %v", err)
		}
		rows, err := images.Rows(img)
		if err != nil {
			logrus.Fatalf("Unable to read image: %v", err)
		}
		action = func(ctx context.Context, m *device.Matrix) error {
			if err := m.Display().DrawBitmap(rows); err != nil {
				return err
			}
			return show(ctx, m, *imageOut, *imageHold)
		}
	case fillCmd.Parsed():
		c, err := led.ParseColor(fillCmd.Arg(0))
		if err != nil {
			logrus.Fatalf("Invalid color: %v", err)
		}
		action = func(ctx context.Context, m *device.Matrix) error {
			if err := m.Display().Fill(c); err != nil {
				return err
			}
			return show(ctx, m, *fillOut, *fillHold)
		}
	case clearCmd.Parsed():
		action = func(ctx context.Context, m *device.Matrix) error {
			return m.Display().Clear(true)
		}
	}

	if err := serverApp.Oneshot(ctx, action); err != nil && ctx.Err() == nil {
		logrus.Fatalf("%v", err)
	}
}

func textColor(serverApp *srv.ServerApp, flagColor string) led.Color16 {
	var c led.Color16
	var err error
	if flagColor == "" {
		c, err = serverApp.Text.TextColor()
	} else {
		c, err = led.ParseColor(flagColor)
	}
	if err != nil {
		logrus.Fatalf("Invalid color: %v", err)
	}
	return c
}

// show presents the back buffer, saves the frame when out is set and
// holds it.
func show(ctx context.Context, m *device.Matrix, out string, d time.Duration) error {
	if err := m.Display().Present(); err != nil {
		return err
	}
	if out != "" {
		if err := m.SaveFrame(out); err != nil {
			return err
		}
	}
	return hold(ctx, d)
}

// hold keeps the current frame on for d or until a stop signal.
func hold(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
	return nil
}
