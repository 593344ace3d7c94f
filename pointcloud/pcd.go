package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/fiducial/ndbuffer"
)

// PCDType is the data encoding of a pcd file.
type PCDType int

const (
	// PCDAscii writes one "x y z" line per point.
	PCDAscii PCDType = iota
	// PCDBinary writes little-endian float32 triples.
	PCDBinary
)

const pcdCommentChar = "#"

var pcdHeaderFields = []string{"VERSION", "FIELDS", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT", "POINTS", "DATA"}

type pcdHeader struct {
	size   []int
	width  int
	height int
	points int
	data   PCDType
}

// ToPCD writes every point of cloud, holes included, as an unorganized pcd v0.7 cloud.
func ToPCD(cloud PointCloud, out io.Writer, outputType PCDType) error {
	var dataLine string
	switch outputType {
	case PCDAscii:
		dataLine = "ascii"
	case PCDBinary:
		dataLine = "binary"
	default:
		return errors.Errorf("unsupported pcd data type %d", outputType)
	}
	if _, err := fmt.Fprintf(out, "VERSION .7\n"+
		"FIELDS x y z\n"+
		"SIZE 4 4 4\n"+
		"TYPE F F F\n"+
		"COUNT 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n"+
		"DATA %s\n", cloud.Size(), cloud.Size(), dataLine); err != nil {
		return err
	}

	var writeErr error
	buf := make([]byte, 12)
	err := Iterate(cloud, func(_ int, p ndbuffer.Vector3) bool {
		switch outputType {
		case PCDBinary:
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(p.X())))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(p.Y())))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(p.Z())))
			_, writeErr = out.Write(buf)
		case PCDAscii:
			_, writeErr = fmt.Fprintf(out, "%f %f %f\n", p.X(), p.Y(), p.Z())
		}
		return writeErr == nil
	})
	if err != nil {
		return err
	}
	return writeErr
}

func parsePCDHeaderLine(line string, index int, header *pcdHeader) error {
	name := pcdHeaderFields[index]
	field, value, _ := strings.Cut(line, " ")
	tokens := strings.Fields(value)
	if field != name {
		return errors.Errorf("line is supposed to start with %s but is %s", name, line)
	}

	var err error
	switch name {
	case "VERSION":
		if value != ".7" && value != "0.7" {
			return errors.Errorf("unsupported pcd version %s", value)
		}
	case "FIELDS":
		if value != "x y z" {
			return errors.Errorf("unsupported pcd fields %s", value)
		}
	case "SIZE":
		if len(tokens) != 3 {
			return errors.New("unexpected number of fields in SIZE line")
		}
		header.size = make([]int, len(tokens))
		for i, token := range tokens {
			header.size[i], err = strconv.Atoi(token)
			if err != nil || (header.size[i] != 4 && header.size[i] != 8) {
				return errors.Errorf("invalid SIZE field %s", token)
			}
		}
	case "TYPE":
		if value != "F F F" {
			return errors.Errorf("unsupported pcd types %s", value)
		}
	case "COUNT":
		if value != "1 1 1" {
			return errors.Errorf("unsupported pcd counts %s", value)
		}
	case "WIDTH":
		if header.width, err = strconv.Atoi(value); err != nil {
			return errors.Wrapf(err, "invalid WIDTH field %s", value)
		}
	case "HEIGHT":
		if header.height, err = strconv.Atoi(value); err != nil {
			return errors.Wrapf(err, "invalid HEIGHT field %s", value)
		}
	case "VIEWPOINT":
		if len(tokens) != 7 {
			return errors.Errorf("unexpected number of fields in VIEWPOINT line. Expected 7, got %d", len(tokens))
		}
		for _, token := range tokens {
			if _, err := strconv.ParseFloat(token, 64); err != nil {
				return errors.Wrapf(err, "invalid VIEWPOINT field %s", token)
			}
		}
	case "POINTS":
		if header.points, err = strconv.Atoi(value); err != nil {
			return errors.Wrapf(err, "invalid POINTS field %s", value)
		}
		if header.points != header.width*header.height {
			return errors.Errorf("POINTS field %d does not match WIDTH*HEIGHT %d", header.points, header.width*header.height)
		}
	case "DATA":
		switch value {
		case "ascii":
			header.data = PCDAscii
		case "binary":
			header.data = PCDBinary
		default:
			return errors.Errorf("unsupported pcd data type %s", value)
		}
	}
	return nil
}

// ReadPCD reads an x y z pcd file into a new owned cloud.
func ReadPCD(inRaw io.Reader) (BasicPointCloud, error) {
	header := pcdHeader{}
	in := bufio.NewReader(inRaw)
	for headerLineCount := 0; headerLineCount < len(pcdHeaderFields); {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "error reading header line %d", headerLineCount)
		}
		line, _, _ = strings.Cut(line, pcdCommentChar)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parsePCDHeaderLine(line, headerLineCount, &header); err != nil {
			return nil, err
		}
		headerLineCount++
	}

	pc, err := New(header.points)
	if err != nil {
		return nil, err
	}
	for i := range header.points {
		var p r3.Vector
		switch header.data {
		case PCDAscii:
			p, err = readPCDAsciiPoint(in, i)
		case PCDBinary:
			p, err = readPCDBinaryPoint(in, header.size)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error reading point %d", i)
		}
		if err := pc.Set(i, p); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

func readPCDAsciiPoint(in *bufio.Reader, i int) (r3.Vector, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return r3.Vector{}, err
	}
	tokens := strings.Fields(line)
	if len(tokens) != 3 {
		return r3.Vector{}, errors.Errorf("unexpected number of fields in point %d", i)
	}
	var coords [3]float64
	for j, token := range tokens {
		if coords[j], err = strconv.ParseFloat(token, 64); err != nil {
			return r3.Vector{}, errors.Wrapf(err, "invalid point %d field %s", i, token)
		}
	}
	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func readPCDBinaryPoint(in *bufio.Reader, sizes []int) (r3.Vector, error) {
	var coords [3]float64
	for j, size := range sizes {
		buf := make([]byte, size)
		if _, err := io.ReadFull(in, buf); err != nil {
			return r3.Vector{}, err
		}
		if size == 4 {
			coords[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
		} else {
			coords[j] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
		}
	}
	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
