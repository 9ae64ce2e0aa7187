package builtins

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

func (r *Registry) registerIO() {
	r.registerOut("print", 1, 1, builtinPrint)
	r.registerOut("println", 1, 1, builtinPrintln)
	r.registerIn("read", 0, 0, builtinRead)
	r.registerValue("file_read", 1, 1, builtinFileRead)
	r.registerValue("file_read_lines", 1, 1, builtinFileReadLines)
	r.registerValue("file_write", 2, 2, builtinFileWrite)
	r.registerValue("file_append", 2, 2, builtinFileAppend)
}

// builtinPrint writes a String argument's raw bytes and any other
// argument's display form, with no trailing newline.
func builtinPrint(args []value.Value, pos token.Position, stack []errors.Frame, out io.Writer) (value.Value, error) {
	if s, ok := args[0].(value.String); ok {
		fmt.Fprint(out, s.Value())
	} else {
		fmt.Fprint(out, value.Display(args[0]))
	}
	return value.NilValue, nil
}

func builtinPrintln(args []value.Value, pos token.Position, stack []errors.Frame, out io.Writer) (value.Value, error) {
	fmt.Fprintln(out, value.Display(args[0]))
	return value.NilValue, nil
}

func builtinRead(args []value.Value, pos token.Position, stack []errors.Frame, in *bufio.Reader) (value.Value, error) {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return value.NilValue, nil
	}
	return value.NewString(strings.TrimRight(line, "\r\n")), nil
}

func builtinFileRead(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	path, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError("file_read", 0, args[0], "String", pos, stack)
	}
	data, err := os.ReadFile(path.Value())
	if err != nil {
		return nil, errors.New(errors.FileAccess, pos, stack, "file_read: %v", err)
	}
	return value.NewString(string(data)), nil
}

func builtinFileReadLines(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	path, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError("file_read_lines", 0, args[0], "String", pos, stack)
	}
	data, err := os.ReadFile(path.Value())
	if err != nil {
		return nil, errors.New(errors.FileAccess, pos, stack, "file_read_lines: %v", err)
	}
	text := strings.TrimRight(string(data), "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	elems := make([]value.Value, len(lines))
	for i, l := range lines {
		elems[i] = value.NewString(strings.TrimRight(l, "\r"))
	}
	return value.NewList(elems), nil
}

func builtinFileWrite(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	return writeFile("file_write", args, pos, stack, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func builtinFileAppend(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	return writeFile("file_append", args, pos, stack, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

// writeFile accepts any value for the content argument, writing its
// display form when it is not already a String.
func writeFile(name string, args []value.Value, pos token.Position, stack []errors.Frame, flag int) (value.Value, error) {
	path, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError(name, 0, args[0], "String", pos, stack)
	}
	f, err := os.OpenFile(path.Value(), flag, 0644)
	if err != nil {
		return nil, errors.New(errors.FileAccess, pos, stack, "%s: %v", name, err)
	}
	defer f.Close()
	if _, err := fmt.Fprint(f, value.Display(args[1])); err != nil {
		return nil, errors.New(errors.FileAccess, pos, stack, "%s: %v", name, err)
	}
	return value.NilValue, nil
}
