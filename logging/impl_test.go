package logging

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

type correspondence struct {
	Index int
	Point []float64
	note  string
}

// assertLogMatches fuzzy matches one console line: the time only by length and the caller
// only by file name.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualParts := strings.Split(strings.TrimSuffix(output, "\n"), "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])

	actualFilename, actualLine, found := strings.Cut(actualParts[2], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[2], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLine)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualParts[3], test.ShouldEqual, expectedParts[3])
	if len(actualParts) == 4 {
		return
	}

	expectedMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(expectedParts[4]), &expectedMap), test.ShouldBeNil)
	actualMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(actualParts[4]), &actualMap), test.ShouldBeNil)
	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func TestConsoleOutputFormat(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := &impl{"", NewAtomicLevelAt(DEBUG), true, []Appender{NewWriterAppender(notStdout)}}

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	logging/impl_test.go:67	impl Info log`)

	logger.Debugf("estimated %d points", 5)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	DEBUG	logging/impl_test.go:71	estimated 5 points`)

	logger.Warnw("hole", "pixel", []int{3, 4}, "correspondence", correspondence{2, []float64{1, 2}, "dropped"})
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	WARN	logging/impl_test.go:75	hole	{"pixel":[3,4],"correspondence":{"Index":2,"Point":[1,2]}}`)

	logger.Errorw("unpaired", "key")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	ERROR	logging/impl_test.go:79	unpaired	{"key":"unpaired log key"}`)
}

func TestLevelsAndSubloggers(t *testing.T) {
	out := &bytes.Buffer{}
	logger := NewBlankLogger("fiducial")
	logger.AddAppender(NewWriterAppender(out))
	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)

	logger.Info("dropped")
	logger.Debugw("dropped")
	test.That(t, out.Len(), test.ShouldEqual, 0)

	sub := logger.Sublogger("estimate")
	test.That(t, sub.GetLevel(), test.ShouldEqual, WARN)
	sub.SetLevel(DEBUG)
	sub.Debug("kept")
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)

	parts := strings.Split(strings.TrimSpace(out.String()), "\t")
	test.That(t, parts[2], test.ShouldEqual, "fiducial.estimate")
	test.That(t, parts[len(parts)-1], test.ShouldEqual, "kept")
}

func TestLevelParsing(t *testing.T) {
	for _, lvl := range []Level{DEBUG, INFO, WARN, ERROR} {
		parsed, err := LevelFromString(strings.ToUpper(lvl.String()))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, lvl)
		test.That(t, parsed.AsZap().String(), test.ShouldEqual, strings.ToLower(lvl.String()))
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var cfg struct {
		Level Level `json:"level"`
	}
	test.That(t, json.Unmarshal([]byte(`{"level":"warning"}`), &cfg), test.ShouldBeNil)
	test.That(t, cfg.Level, test.ShouldEqual, WARN)
	data, err := json.Marshal(cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `{"level":"warn"}`)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("transform estimated", "scale", 1.5)
	logger.Sublogger("deproject").Debug("fetched")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entry := logs.All()[0]
	test.That(t, entry.Message, test.ShouldEqual, "transform estimated")
	test.That(t, entry.ContextMap()["scale"], test.ShouldEqual, 1.5)
	test.That(t, logs.FilterMessage("fetched").All()[0].LoggerName, test.ShouldEqual, "deproject")

	logger.AsZap().Warn("through zap")
	test.That(t, logs.FilterMessage("through zap").Len(), test.ShouldEqual, 1)
}

type failingAppender struct {
	err error
}

func (f failingAppender) Write(zapcore.Entry, []zapcore.Field) error { return nil }
func (f failingAppender) Sync() error                                 { return f.err }

func TestSyncCombinesErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	logger := NewBlankLogger("sync")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	logger.AddAppender(failingAppender{first})
	logger.AddAppender(NewWriterAppender(&bytes.Buffer{}))
	logger.AddAppender(failingAppender{second})
	err := logger.Sync()
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 2)
	test.That(t, errors.Is(err, second), test.ShouldBeTrue)
}
