package parking

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Shell runs a line-oriented command loop against a Lot. Each command is
// traced as its own span under a single "shell.run" span.
type Shell struct {
	lot     Lot
	scanner *bufio.Scanner
	out     io.Writer
	tracer  trace.Tracer
}

func NewShell(lot Lot, in io.Reader, out io.Writer, tracer trace.Tracer) *Shell {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("shell")
	}
	return &Shell{
		lot:     lot,
		scanner: bufio.NewScanner(in),
		out:     out,
		tracer:  tracer,
	}
}

func (s *Shell) Run(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for ctx.Err() == nil {
		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		cmdCtx, cmdSpan := s.tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(args ...any) {
	fmt.Fprintln(s.out, args...)
}

func (s *Shell) processCommand(ctx context.Context, input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("command.name", command))

	switch command {
	case "add_slot":
		s.handleAddSlot(ctx, parts)
	case "park":
		s.handlePark(ctx, parts)
	case "leave":
		s.handleLeave(ctx, parts)
	case "status":
		s.handleList(ctx, false)
	case "available":
		s.handleList(ctx, true)
	case "slot":
		s.handleSlot(ctx, parts)
	case "seed":
		s.handleSeed(ctx)
	case "help":
		s.handleHelp()
	default:
		trace.SpanFromContext(ctx).AddEvent("unknown_command")
		s.printf("Unknown command: %s\n", command)
	}
}

func (s *Shell) handleAddSlot(ctx context.Context, parts []string) {
	if len(parts) != 4 {
		s.println("Usage: add_slot <slot_no> <covered> <ev_charging>")
		return
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		s.println("Invalid slot number")
		return
	}

	covered, err := parseFlag(parts[2])
	if err != nil {
		s.println("Invalid covered flag, use true or false")
		return
	}

	evCharging, err := parseFlag(parts[3])
	if err != nil {
		s.println("Invalid ev_charging flag, use true or false")
		return
	}

	slot, err := s.lot.AddSlot(ctx, id, covered, evCharging)
	if err != nil {
		s.printf("Error: %s\n", err.Error())
		return
	}

	s.printf("Created slot %d (covered: %s, ev: %s)\n", slot.ID, yesNo(slot.Covered), yesNo(slot.EVCharging))
}

func (s *Shell) handlePark(ctx context.Context, parts []string) {
	if len(parts) < 3 || len(parts) > 4 {
		s.println("Usage: park <needs_ev> <needs_covered> [vehicle_type]")
		return
	}

	needsEV, err := parseFlag(parts[1])
	if err != nil {
		s.println("Invalid needs_ev flag, use true or false")
		return
	}

	needsCovered, err := parseFlag(parts[2])
	if err != nil {
		s.println("Invalid needs_covered flag, use true or false")
		return
	}

	vehicleType := ""
	if len(parts) == 4 {
		vehicleType = parts[3]
	}

	result, err := s.lot.Park(ctx, needsEV, needsCovered, vehicleType)
	if err != nil {
		s.printf("Error: %s\n", err.Error())
		return
	}

	s.println(result.Message)
}

func (s *Shell) handleLeave(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.println("Usage: leave <slot_no>")
		return
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		s.println("Invalid slot number")
		return
	}

	result, err := s.lot.Leave(ctx, id)
	if err != nil {
		s.printf("Error: %s\n", err.Error())
		return
	}

	s.println(result.Message)
}

func (s *Shell) handleList(ctx context.Context, availableOnly bool) {
	var (
		slots []Slot
		err   error
	)
	if availableOnly {
		slots, err = s.lot.ListAvailable(ctx)
	} else {
		slots, err = s.lot.ListSlots(ctx)
	}
	if err != nil {
		s.printf("Error: %s\n", err.Error())
		return
	}

	if len(slots) == 0 {
		if availableOnly {
			s.println("No slot available")
		} else {
			s.println("Parking lot is empty")
		}
		return
	}

	s.printSlots(slots)
}

func (s *Shell) handleSlot(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.println("Usage: slot <slot_no>")
		return
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		s.println("Invalid slot number")
		return
	}

	slot, err := s.lot.GetSlot(ctx, id)
	if err != nil {
		s.printf("Error: %s\n", err.Error())
		return
	}

	s.printSlots([]Slot{*slot})
}

func (s *Shell) handleSeed(ctx context.Context) {
	created, err := s.lot.SeedSamples(ctx)
	if err != nil {
		s.printf("Error: %s\n", err.Error())
		return
	}
	s.printf("Sample slots added successfully (%d created)\n", created)
}

func (s *Shell) handleHelp() {
	s.println("Commands:")
	s.println("  add_slot <slot_no> <covered> <ev_charging>")
	s.println("  park <needs_ev> <needs_covered> [vehicle_type]")
	s.println("  leave <slot_no>")
	s.println("  status")
	s.println("  available")
	s.println("  slot <slot_no>")
	s.println("  seed")
	s.println("  exit")
}

func (s *Shell) printSlots(slots []Slot) {
	s.println("Slot No.\tCovered\tEV\tOccupied\tVehicle")
	for _, slot := range slots {
		vehicle := slot.Vehicle()
		if vehicle == "" {
			vehicle = "-"
		}
		s.printf("%d\t\t%s\t%s\t%s\t\t%s\n",
			slot.ID, yesNo(slot.Covered), yesNo(slot.EVCharging), yesNo(slot.Occupied), vehicle)
	}
}

func parseFlag(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
