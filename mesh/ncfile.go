package mesh

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"

	"github.com/notargets/rllgrid/utils"
)

// NetCDF is an open classic format NetCDF file
type NetCDF struct {
	*cdf.File
	fd *os.File
}

// OpenNetCDF opens an existing NetCDF file for reading
func OpenNetCDF(path string) (nc *NetCDF, err error) {
	var (
		fd *os.File
		f  *cdf.File
	)
	if fd, err = os.Open(path); err != nil {
		return nil, fmt.Errorf("unable to open %q: %w", path, err)
	}
	if f, err = cdf.Open(fd); err != nil {
		fd.Close()
		return nil, fmt.Errorf("unable to read NetCDF header of %q: %w", path, err)
	}
	return &NetCDF{File: f, fd: fd}, nil
}

// CreateNetCDF writes a defined header to a new file at path
func CreateNetCDF(path string, h *cdf.Header) (nc *NetCDF, err error) {
	var (
		fd *os.File
		f  *cdf.File
	)
	h.Define()
	if errs := h.Check(); len(errs) != 0 {
		return nil, fmt.Errorf("invalid NetCDF header for %q: %v", path, errs)
	}
	if fd, err = os.Create(path); err != nil {
		return nil, fmt.Errorf("unable to create %q: %w", path, err)
	}
	if f, err = cdf.Create(fd, h); err != nil {
		fd.Close()
		return nil, fmt.Errorf("unable to write NetCDF header to %q: %w", path, err)
	}
	return &NetCDF{File: f, fd: fd}, nil
}

func (nc *NetCDF) Close() (err error) {
	return nc.fd.Close()
}

// Finish updates the record count and closes a file opened for writing
func (nc *NetCDF) Finish() (err error) {
	if err = cdf.UpdateNumRecs(nc.fd); err != nil {
		nc.fd.Close()
		return
	}
	return nc.fd.Close()
}

func (nc *NetCDF) HasVariable(name string) bool {
	for _, v := range nc.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// ReadFloat64 reads a whole numeric variable, converting to float64
func (nc *NetCDF) ReadFloat64(name string) (data []float64, err error) {
	var (
		raw interface{}
	)
	if raw, err = nc.readRaw(name); err != nil {
		return
	}
	switch v := raw.(type) {
	case []float64:
		data = v
	case []float32:
		data = make([]float64, len(v))
		for i := range v {
			data[i] = float64(v[i])
		}
	case []int32:
		data = make([]float64, len(v))
		for i := range v {
			data[i] = float64(v[i])
		}
	case []int16:
		data = make([]float64, len(v))
		for i := range v {
			data[i] = float64(v[i])
		}
	case []int8:
		data = make([]float64, len(v))
		for i := range v {
			data[i] = float64(v[i])
		}
	default:
		err = fmt.Errorf("variable %q has non-numeric type %T", name, raw)
	}
	return
}

// ReadInt reads a whole integer variable
func (nc *NetCDF) ReadInt(name string) (data []int, err error) {
	var (
		raw interface{}
	)
	if raw, err = nc.readRaw(name); err != nil {
		return
	}
	switch v := raw.(type) {
	case []int32:
		data = make([]int, len(v))
		for i := range v {
			data[i] = int(v[i])
		}
	case []int16:
		data = make([]int, len(v))
		for i := range v {
			data[i] = int(v[i])
		}
	case []int8:
		data = make([]int, len(v))
		for i := range v {
			data[i] = int(v[i])
		}
	default:
		err = fmt.Errorf("variable %q has non-integer type %T", name, raw)
	}
	return
}

func (nc *NetCDF) readRaw(name string) (raw interface{}, err error) {
	if !nc.HasVariable(name) {
		return nil, fmt.Errorf("missing variable %q", name)
	}
	var (
		n = utils.Product(nc.Header.Lengths(name))
		r = nc.Reader(name, nil, nil)
		m int
	)
	raw = r.Zero(n)
	if m, err = r.Read(raw); err != nil && !(err == io.EOF && m == n) {
		return nil, fmt.Errorf("reading variable %q: %w", name, err)
	}
	return raw, nil
}

// WriteVariable writes the full extent of a variable
func (nc *NetCDF) WriteVariable(name string, data interface{}) (err error) {
	end := nc.Header.Lengths(name)
	start := make([]int, len(end))
	w := nc.Writer(name, start, end)
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("writing variable %q: %w", name, err)
	}
	return
}

// IntAttribute reads the first value of a numeric attribute as an int
func (nc *NetCDF) IntAttribute(v, a string) (val int, ok bool) {
	switch att := nc.Header.GetAttribute(v, a).(type) {
	case []int32:
		if len(att) > 0 {
			return int(att[0]), true
		}
	case []int16:
		if len(att) > 0 {
			return int(att[0]), true
		}
	case []int8:
		if len(att) > 0 {
			return int(att[0]), true
		}
	case []float64:
		if len(att) > 0 {
			return int(att[0]), true
		}
	case []float32:
		if len(att) > 0 {
			return int(att[0]), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(strings.TrimRight(att, "\x00"))); err == nil {
			return i, true
		}
	}
	return 0, false
}

// StringAttribute reads a character attribute
func (nc *NetCDF) StringAttribute(v, a string) (val string, ok bool) {
	if att, isString := nc.Header.GetAttribute(v, a).(string); isString {
		return strings.TrimRight(att, "\x00"), true
	}
	return "", false
}

// HasAttribute reports whether attribute a exists on variable v ("" for global)
func (nc *NetCDF) HasAttribute(v, a string) bool {
	return nc.Header.GetAttribute(v, a) != nil
}
