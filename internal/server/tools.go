package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("repeat",
			mcp.WithDescription("Echo the given text back"),
			mcp.WithString("text", mcp.Description("Text to echo"), mcp.Required()),
		),
		s.traced("repeat", s.handleRepeat),
	)

	// input
	s.mcp.AddTool(
		mcp.NewTool("getCursorPosition",
			mcp.WithDescription("Get the mouse cursor position and the main screen size and scale"),
		),
		s.traced("getCursorPosition", s.handleGetCursorPosition),
	)
	s.mcp.AddTool(
		mcp.NewTool("moveCursor",
			mcp.WithDescription("Move the mouse cursor to screen coordinates"),
			mcp.WithNumber("x", mcp.Description("X coordinate in screen points"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Y coordinate in screen points"), mcp.Required()),
		),
		s.traced("moveCursor", s.handleMoveCursor),
	)
	s.mcp.AddTool(
		mcp.NewTool("clickMouse",
			mcp.WithDescription("Left-click at the current cursor position"),
		),
		s.traced("clickMouse", s.handleClickMouse),
	)
	s.mcp.AddTool(
		mcp.NewTool("pasteText",
			mcp.WithDescription("Put text on the clipboard and paste it with cmd+v"),
			mcp.WithString("text", mcp.Description("Text to paste"), mcp.Required()),
		),
		s.traced("pasteText", s.handlePasteText),
	)

	// processes
	s.mcp.AddTool(
		mcp.NewTool("executeCommand",
			mcp.WithDescription("Run a command through /usr/bin/env and return its exit status, stdout and stderr"),
			mcp.WithString("command", mcp.Description("Command name or path"), mcp.Required()),
			mcp.WithArray("args", mcp.Description("Command arguments"), mcp.WithStringItems()),
		),
		s.traced("executeCommand", s.handleExecuteCommand),
	)
	s.mcp.AddTool(
		mcp.NewTool("launchApp",
			mcp.WithDescription("Launch an application by bundle identifier or by name"),
			mcp.WithString("bundleId", mcp.Description("Bundle identifier, e.g. com.apple.TextEdit")),
			mcp.WithString("appName", mcp.Description("Application name, matched ignoring case")),
		),
		s.traced("launchApp", s.handleLaunchApp),
	)
	s.mcp.AddTool(
		mcp.NewTool("getAppsList",
			mcp.WithDescription("List installed applications with their bundle identifiers"),
		),
		s.traced("getAppsList", s.handleGetAppsList),
	)

	// accessibility
	s.mcp.AddTool(
		mcp.NewTool("getWindowsList",
			mcp.WithDescription("List on-screen windows of user applications"),
			mcp.WithString("query", mcp.Description("jq expression applied to the list")),
		),
		s.traced("getWindowsList", s.handleGetWindowsList),
	)
	s.mcp.AddTool(
		mcp.NewTool("getWindowInfo",
			mcp.WithDescription("Get the accessibility tree of the focused window, or of the first window of a process"),
			mcp.WithNumber("pid", mcp.Description("Process ID; the focused window is used when omitted")),
			mcp.WithNumber("windowNumber", mcp.Description("Window number (accepted, the first window is always used)")),
			mcp.WithString("query", mcp.Description("jq expression applied to the tree")),
		),
		s.traced("getWindowInfo", s.handleGetWindowInfo),
	)
	s.mcp.AddTool(
		mcp.NewTool("getFocusedWindowInfo",
			mcp.WithDescription("Get the pid, application name and window id of the focused window"),
		),
		s.traced("getFocusedWindowInfo", s.handleGetFocusedWindowInfo),
	)

	// screen
	s.mcp.AddTool(
		mcp.NewTool("captureScreen",
			mcp.WithDescription("Capture the main screen as an image"),
			mcp.WithNumber("scale", mcp.Description("Scale factor 0.1-1.0 (default from config)")),
			mcp.WithString("format", mcp.Description("Image format: png, jpg (default from config)")),
			mcp.WithNumber("quality", mcp.Description("JPEG quality 1-100 (default: 80)")),
			mcp.WithBoolean("markCursor", mcp.Description("Draw the cursor position on the image")),
		),
		s.traced("captureScreen", s.handleCaptureScreen),
	)
}
