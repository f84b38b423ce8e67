package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/macpilot/internal/apps"
	"github.com/mj1618/macpilot/internal/axtree"
	"github.com/mj1618/macpilot/internal/capture"
	"github.com/mj1618/macpilot/internal/platform"
	"github.com/mj1618/macpilot/internal/query"
	"github.com/mj1618/macpilot/internal/shell"
)

// Result texts returned to clients.
const (
	msgCursorFailed    = "获取鼠标位置失败"
	msgMovedPrefix     = "鼠标已移动到 "
	msgClicked         = "已点击鼠标"
	msgPasted          = "已粘贴文本"
	msgCommandFailed   = "命令执行失败"
	msgAppArgsMissing  = "错误：必须提供bundleId或appName"
	msgAppNameNotFound = "找不到应用："
	msgAppNotFound     = "找不到应用"
	msgAppLaunched     = "已启动应用"
	msgAppsListFailed  = "获取应用列表失败"
	msgUnavailable     = "not available on this platform"
)

// compactJSON marshals v on one line without HTML escaping.
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// formatCoord prints a coordinate with at least one decimal place, so 100
// reads "100.0".
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		s += ".0"
	}
	return s
}

func (s *Server) handleRepeat(_ context.Context, request mcp.CallToolRequest, _ *log.Logger) (*mcp.CallToolResult, error) {
	text, err := requireString(request.GetArguments(), "text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleGetCursorPosition(_ context.Context, _ mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error) {
	if s.provider.Inputter == nil || s.provider.Screen == nil {
		return mcp.NewToolResultError("input " + msgUnavailable), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	pos, err := s.provider.Inputter.CursorPosition()
	if err != nil {
		logger.Warn("cursor position", "err", err)
		return mcp.NewToolResultText(msgCursorFailed), nil
	}
	screen, err := s.provider.Screen.MainScreen()
	if err != nil {
		logger.Warn("main screen", "err", err)
	}
	text, err := compactJSON(platform.CursorInfo{X: pos.X, Y: pos.Y, Screen: screen})
	if err != nil {
		return mcp.NewToolResultText(msgCursorFailed), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleMoveCursor(_ context.Context, request mcp.CallToolRequest, _ *log.Logger) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	x, err := requireNumber(params, "x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := requireNumber(params, "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.provider.Inputter == nil {
		return mcp.NewToolResultError("input " + msgUnavailable), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if err := s.provider.Inputter.MoveMouse(int(math.Round(x)), int(math.Round(y))); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msgMovedPrefix + formatCoord(x) + ", " + formatCoord(y)), nil
}

func (s *Server) handleClickMouse(_ context.Context, _ mcp.CallToolRequest, _ *log.Logger) (*mcp.CallToolResult, error) {
	if s.provider.Inputter == nil {
		return mcp.NewToolResultError("input " + msgUnavailable), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	pos, err := s.provider.Inputter.CursorPosition()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.provider.Inputter.Click(int(math.Round(pos.X)), int(math.Round(pos.Y)), platform.MouseLeft, 1); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msgClicked), nil
}

func (s *Server) handlePasteText(_ context.Context, request mcp.CallToolRequest, _ *log.Logger) (*mcp.CallToolResult, error) {
	text, err := requireString(request.GetArguments(), "text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.provider.Clipboard == nil || s.provider.Inputter == nil {
		return mcp.NewToolResultError("clipboard " + msgUnavailable), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if err := s.provider.Clipboard.SetText(text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.provider.Inputter.KeyCombo([]string{"cmd", "v"}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msgPasted), nil
}

func (s *Server) handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	command, err := requireString(params, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args, err := stringSliceParam(params, "args")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.shell.Run(ctx, command, args...)
	if errors.Is(err, shell.ErrDisabled) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultText(msgCommandFailed), nil
	}
	if res.ExitStatus != nil {
		logger.Debug("command exited", "command", command, "status", *res.ExitStatus)
	}
	text, err := compactJSON(res)
	if err != nil {
		return mcp.NewToolResultText(msgCommandFailed), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleLaunchApp(ctx context.Context, request mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	bundleID, hasBundle := optionalString(params, "bundleId")
	appName, hasName := optionalString(params, "appName")

	switch {
	case hasBundle:
	case hasName:
		app, err := s.catalog.Find(appName)
		if err != nil {
			return mcp.NewToolResultText(msgAppNameNotFound + appName), nil
		}
		bundleID = app.BundleID
	default:
		return mcp.NewToolResultText(msgAppArgsMissing), nil
	}

	if bundleID == "" {
		return mcp.NewToolResultText(msgAppNotFound), nil
	}
	if err := s.launcher.Launch(ctx, bundleID); err != nil {
		if errors.Is(err, apps.ErrNotFound) {
			return mcp.NewToolResultText(msgAppNotFound), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	logger.Info("launched", "bundle_id", bundleID)
	return mcp.NewToolResultText(msgAppLaunched), nil
}

func (s *Server) handleGetAppsList(_ context.Context, _ mcp.CallToolRequest, _ *log.Logger) (*mcp.CallToolResult, error) {
	text, err := compactJSON(s.catalog.List())
	if err != nil {
		return mcp.NewToolResultText(msgAppsListFailed), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleGetWindowsList(ctx context.Context, request mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error) {
	if s.provider.Accessibility == nil {
		return mcp.NewToolResultError("accessibility " + msgUnavailable), nil
	}
	expr := stringParam(request.GetArguments(), "query", "")

	s.providerMu.Lock()
	doc, err := s.accessibility(logger).WindowListDocument()
	s.providerMu.Unlock()

	return s.documentResult(ctx, doc, err, expr)
}

func (s *Server) handleGetWindowInfo(ctx context.Context, request mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error) {
	if s.provider.Accessibility == nil {
		return mcp.NewToolResultError("accessibility " + msgUnavailable), nil
	}
	params := request.GetArguments()
	pid, hasPID := numberParam(params, "pid")
	windowNumber := intParam(params, "windowNumber", 0)
	expr := stringParam(params, "query", "")

	s.providerMu.Lock()
	svc := s.accessibility(logger)
	var (
		doc string
		err error
	)
	if hasPID {
		doc, err = svc.WindowDocument(int(pid), windowNumber)
	} else {
		doc, err = svc.FocusedWindowDocument()
	}
	s.providerMu.Unlock()

	return s.documentResult(ctx, doc, err, expr)
}

func (s *Server) handleGetFocusedWindowInfo(_ context.Context, _ mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error) {
	if s.provider.Accessibility == nil {
		return mcp.NewToolResultError("accessibility " + msgUnavailable), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	return mcp.NewToolResultText(s.accessibility(logger).GetFocusedWindowInfo()), nil
}

// documentResult turns a tree or list document into a tool result. Failure
// messages are ordinary text; the query only runs over a real document.
func (s *Server) documentResult(ctx context.Context, doc string, err error, expr string) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultText(axtree.Flatten("", err)), nil
	}
	out, err := query.Apply(ctx, expr, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleCaptureScreen(_ context.Context, request mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error) {
	if s.provider.Screen == nil {
		return mcp.NewToolResultError("screen capture " + msgUnavailable), nil
	}
	params := request.GetArguments()
	opts := capture.Options{
		Scale:   floatParam(params, "scale", s.cfg.Capture.Scale),
		Format:  stringParam(params, "format", s.cfg.Capture.Format),
		Quality: intParam(params, "quality", capture.DefaultQuality),
	}
	markCursor, _ := params["markCursor"].(bool)

	s.providerMu.Lock()
	data, err := s.provider.Screen.Capture()
	if err == nil && markCursor && s.provider.Inputter != nil {
		if pos, perr := s.provider.Inputter.CursorPosition(); perr == nil {
			opts.Cursor = &capture.Point{X: pos.X, Y: pos.Y}
			if screen, serr := s.provider.Screen.MainScreen(); serr == nil {
				opts.ScreenWidth = screen.Width
			}
		}
	}
	s.providerMu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	img, err := capture.Process(data, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	logger.Debug("captured", "width", img.Width, "height", img.Height, "bytes", len(img.Data))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(img.Data),
				MIMEType: img.MIMEType,
			},
		},
	}, nil
}
