/*

mutil lists MIDI devices, sends notes to a MIDI out port and streams what
arrives on a MIDI in port as JSON, one message per line.

examples

mutil outs
mutil trig --note=36 --velocity=90 -d=2 -c=9
mutil stream -d=1 --only=note_on,note_off

midicat in -i=10 | mutil decode

(prints the messages coming from midi in port 10 as JSON)

*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/metakeule/config"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/internal/logger"
	"gitlab.com/gomidi/mutil/message"
	"gitlab.com/gomidi/mutil/mutil"
	"gitlab.com/gomidi/mutil/mutildrv"
)

var (
	cfg = config.MustNew("mutil", VERSION, "mutil lists MIDI devices, sends notes and streams incoming MIDI as JSON")

	argChannel   = cfg.NewInt32("channel", "MIDI channel (0-15) of the messages that are sent.", config.Shortflag('c'))
	argDevice    = cfg.NewInt32("device", "id of the MIDI port. If not given, the default port of the driver is used.", config.Shortflag('d'))
	argDriver    = cfg.NewString("driver", "MIDI driver, one of "+strings.Join(mutildrv.Names(), ", ")+" (default "+mutildrv.DefaultDriver+")")
	argLogLevel  = cfg.NewString("loglevel", "log level: debug, info (default), warn or error")
	argLogFormat = cfg.NewString("logformat", "log format: console (default) or json")
	argLogFile   = cfg.NewString("logfile", "file to write the log to (default stderr)")
	argTable     = cfg.NewBool("table", "print the list as table instead of JSON")

	cmdDevices = cfg.MustCommand("devices", "show all MIDI ports").SkipAllBut("driver", "loglevel", "logformat", "logfile", "table")
	cmdIns     = cfg.MustCommand("ins", "show the available MIDI in ports").SkipAllBut("driver", "loglevel", "logformat", "logfile", "table")
	cmdOuts    = cfg.MustCommand("outs", "show the available MIDI out ports").SkipAllBut("driver", "loglevel", "logformat", "logfile", "table")

	cmdOn       = cfg.MustCommand("on", "send a note on message").Skip("table")
	argOnNote   = cmdOn.NewInt32("note", "note (0-127)", config.Shortflag('n'))
	argOnVel    = cmdOn.NewInt32("velocity", "velocity (0-127), default 100")
	cmdOff      = cfg.MustCommand("off", "send a note off message").Skip("table")
	argOffNote  = cmdOff.NewInt32("note", "note (0-127)", config.Shortflag('n'))
	cmdTrig     = cfg.MustCommand("trig", "send a note on, hold it for 40ms and send the note off").Skip("table")
	argTrigNote = cmdTrig.NewInt32("note", "note (0-127)", config.Shortflag('n'))
	argTrigVel  = cmdTrig.NewInt32("velocity", "velocity (0-127), default 100")

	cmdStream = cfg.MustCommand("stream", "print the messages of a MIDI in port as JSON until interrupted").Skip("table").Skip("channel")
	argOnly   = cmdStream.NewString("only", "comma separated message types to print, e.g. note_on,note_off")

	cmdDecode = cfg.MustCommand("decode", "read raw MIDI from stdin and print it as JSON").SkipAllBut("loglevel", "logformat", "logfile")
)

func main() {
	err := run()

	if err != nil {
		fmt.Fprintln(os.Stderr, cfg.Usage())
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}

	os.Exit(0)
}

func run() error {
	err := cfg.Run()

	if err != nil {
		return err
	}

	if cfg.ActiveCommand() == nil {
		return fmt.Errorf("[command] missing")
	}

	log, err := logger.New(logger.Config{
		Level:  argLogLevel.Get(),
		Format: logger.Format(argLogFormat.Get()),
		Path:   logger.Destination(argLogFile.Get()),
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.ActiveCommand() == cmdDecode {
		return decode(os.Stdin, os.Stdout)
	}

	drv, err := mutildrv.Open(argDriver.Get(), log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := drv.Close(); cerr != nil {
			log.Warn("can't close driver", zap.Error(cerr))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []mutil.Option{mutil.WithLogger(log)}
	if cfg.ActiveCommand() == cmdStream {
		only, err := message.ParseTypes(argOnly.Get())
		if err != nil {
			return err
		}
		opts = append(opts, mutil.WithEventFilter(only...))
	}
	m := mutil.New(drv, opts...)

	switch cfg.ActiveCommand() {
	case cmdDevices:
		return showDevices(os.Stdout, m)
	case cmdIns:
		return showDevices(os.Stdout, m, device.Input)
	case cmdOuts:
		return showDevices(os.Stdout, m, device.Output)
	case cmdOn, cmdOff, cmdTrig:
		return send(ctx, m)
	case cmdStream:
		return stream(ctx, os.Stdout, m)
	default:
		return fmt.Errorf("[command] missing")
	}
}

func showDevices(w io.Writer, m *mutil.Mutil, only ...device.Direction) error {
	devs, err := m.Devices(only...)
	if err != nil {
		return err
	}
	if argTable.Get() {
		return printTable(w, devs)
	}
	return json.NewEncoder(w).Encode(devs)
}

func printTable(w io.Writer, devs []device.Device) error {
	for _, d := range devs {
		if _, err := fmt.Fprintf(w, "[%v] %s (%s)\n", d.ID, d.Name, d.Direction); err != nil {
			return err
		}
	}
	return nil
}

func send(ctx context.Context, m *mutil.Mutil) error {
	ch, err := byteArg("channel", argChannel.Get())
	if err != nil {
		return err
	}
	opts := mutil.MessageOptions{Device: mutil.DefaultDevice, Channel: ch}
	if argDevice.IsSet() {
		opts.Device = int(argDevice.Get())
	}

	switch cfg.ActiveCommand() {
	case cmdOn:
		note, vel, err := noteArgs(argOnNote.IsSet(), argOnNote.Get(), argOnVel.IsSet(), argOnVel.Get())
		if err != nil {
			return err
		}
		return m.NoteOn(note, vel, opts)
	case cmdOff:
		note, _, err := noteArgs(argOffNote.IsSet(), argOffNote.Get(), false, 0)
		if err != nil {
			return err
		}
		return m.NoteOff(note, opts)
	default:
		note, vel, err := noteArgs(argTrigNote.IsSet(), argTrigNote.Get(), argTrigVel.IsSet(), argTrigVel.Get())
		if err != nil {
			return err
		}
		return m.Trig(ctx, note, vel, opts)
	}
}

// noteArgs checks the --note and --velocity options. The note is
// required, the velocity defaults to message.DefaultVelocity.
func noteArgs(hasNote bool, note int32, hasVelocity bool, velocity int32) (n, v uint8, err error) {
	if !hasNote {
		return 0, 0, errors.New("missing --note")
	}
	n, err = byteArg("note", note)
	if err != nil {
		return
	}
	v = message.DefaultVelocity
	if hasVelocity {
		v, err = byteArg("velocity", velocity)
	}
	return
}

// byteArg rejects values that do not fit into a byte; the MIDI ranges
// are checked when the message is built.
func byteArg(name string, v int32) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, errors.Errorf("invalid %s %d", name, v)
	}
	return uint8(v), nil
}

func stream(ctx context.Context, w io.Writer, m *mutil.Mutil) error {
	id := mutil.DefaultDevice
	if argDevice.IsSet() {
		id = int(argDevice.Get())
	}

	msgs, err := m.Stream(ctx, id)
	if err != nil {
		return err
	}
	return printRecords(w, msgs)
}

func printRecords(w io.Writer, msgs <-chan message.Message) error {
	enc := json.NewEncoder(w)
	for msg := range msgs {
		if err := enc.Encode(msg.Describe()); err != nil {
			return errors.Wrap(err, "could not write")
		}
	}
	return nil
}

// decode prints the raw MIDI data of src as JSON records.
func decode(src io.Reader, w io.Writer) error {
	rd := message.NewReader(src)
	enc := json.NewEncoder(w)
	for {
		msg, err := rd.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "could not understand MIDI data")
		}
		if err := enc.Encode(msg.Describe()); err != nil {
			return errors.Wrap(err, "could not write")
		}
	}
}
