// Package scaffold embeds the starter files written by `codenav init`.
package scaffold

import (
	_ "embed"
	"encoding/json"
)

// ConfigTemplate is the commented codenav.yml written into a new project.
//
//go:embed templates/codenav.yml
var ConfigTemplate []byte

// ConfigFileName is the name ConfigTemplate is written under.
const ConfigFileName = "codenav.yml"

// ServerName is the key of the codenav entry in .mcp.json.
const ServerName = "codenav"

// MCPEntry is the MCP server configuration for the codenav binary.
var MCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "codenav",
  "args": ["serve"]
}`)
