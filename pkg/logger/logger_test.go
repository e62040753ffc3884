package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { _ = SetOutput(os.Stdout) }()

		Convey("Then Get should return a usable logger", func() {
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("And Named should return a child logger", func() {
			So(Named("test"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		So(Init(), ShouldBeNil)
		var buf bytes.Buffer
		So(SetOutput(&buf), ShouldBeNil)
		defer func() {
			_ = SetFormat("text")
			_ = SetOutput(os.Stdout)
		}()
		ctx := context.Background()

		Convey("When logging an info message with fields", func() {
			Get().Info(ctx, "rows loaded", Int("rows", 3), String("path", "a.csv"))

			Convey("Then the text line carries message, fields and source", func() {
				line := buf.String()
				So(line, ShouldContainSubstring, "rows loaded")
				So(line, ShouldContainSubstring, "rows=3")
				So(line, ShouldContainSubstring, "path=a.csv")
				So(line, ShouldContainSubstring, "source=")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")
			Get().Error(ctx, "shown", Error(errors.New("boom")))

			Convey("Then only the error is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "boom")
			})
		})

		Convey("When switching to json", func() {
			So(SetFormat("json"), ShouldBeNil)
			Named("loader").Warn(ctx, "dropped", Bool("excluded", true))

			Convey("Then the line is a JSON object", func() {
				var m map[string]any
				So(json.Unmarshal(buf.Bytes(), &m), ShouldBeNil)
				So(m["msg"], ShouldEqual, "dropped")
				So(m["logger"], ShouldEqual, "loader")
				So(m["excluded"], ShouldEqual, true)
			})
		})
	})
}

func TestLoggerSettings(t *testing.T) {
	Convey("Given level and format parsing", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels are accepted", func() {
			for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
			_ = SetLevelString("info")
		})

		Convey("And unknown values are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
			So(SetFormat("xml"), ShouldNotBeNil)
			So(SetOutput(nil), ShouldNotBeNil)
		})
	})
}
