// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ley tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ley/internal/apperr"
	"github.com/starford/ley/internal/index"
	"github.com/starford/ley/internal/ley"
	"github.com/starford/ley/internal/render"
	"github.com/starford/ley/internal/site"
)

const syntaxURI = "ley://syntax"

// Server wraps the MCP server with Ley tools.
type Server struct {
	mcp      *server.MCPServer
	builder  *site.Builder
	manifest index.Manifest
}

// New creates a new MCP server with all Ley tools registered.
func New(b *site.Builder, manifest index.Manifest) *Server {
	s := &Server{builder: b, manifest: manifest}

	s.mcp = server.NewMCPServer(
		"Ley",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("render_ley",
		mcp.WithDescription("Render Ley source text to a complete HTML page. "+
			"Read the syntax guide first via get_syntax or the ley://syntax resource."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Ley source text")),
		mcp.WithString("style", mcp.Description("Stylesheet to use when the source declares none")),
	), s.renderLey)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List built pages with their source, output file and title."),
		mcp.WithString("folder", mcp.Description("Optional source folder to list (empty for all)")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("read_source",
		mcp.WithDescription("Read the raw Ley source of a page."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Source path relative to the source tree (e.g. guide/intro.ley)")),
	), s.readSource)

	s.mcp.AddTool(mcp.NewTool("search_pages",
		mcp.WithDescription("Full-text search through the text and titles of built pages."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPages)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all sources whose pages link to the given page."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Output page (e.g. guide/intro.html) or its source path")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new Ley source and build its page. "+
			"The content must parse; follow the syntax guide from get_syntax."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Source path for the new page (must end with .ley)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Ley source text")),
	), s.createPage)

	s.mcp.AddTool(mcp.NewTool("add_image",
		mcp.WithDescription("Store an image in the site so pages can show it. "+
			"Returns a leyImage field ready to paste into a page."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or base64 data URI of the image")),
		mcp.WithString("filename", mcp.Description("Optional file name to store the image under")),
	), s.addImage)

	s.mcp.AddTool(mcp.NewTool("get_syntax",
		mcp.WithDescription("Returns the Ley syntax guide. "+
			"Call this before writing or rendering Ley source."),
	), s.getSyntax)

	s.mcp.AddResource(
		mcp.NewResource(syntaxURI, "Ley Syntax Guide",
			mcp.WithResourceDescription("Sections, kinds, metadata, comments and quoting in Ley markup."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) renderLey(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	style := s.builder.Style()
	if v, sErr := req.RequireString("style"); sErr == nil && v != "" {
		style = v
	}

	doc, err := ley.Parse(source, ley.WithStyle(style))
	if err != nil {
		return parseErrorResult(err), nil
	}
	return mcp.NewToolResultText(render.HTML(doc)), nil
}

func (s *Server) listPages(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = strings.Trim(f, "/")
	}

	pages, err := s.manifest.ListPages()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, p := range pages {
		if folder != "" && !strings.HasPrefix(p.Source, folder+"/") {
			continue
		}
		title := p.Title
		if title == "" {
			title = render.DefaultTitle
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", p.Source, p.Output, title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no pages found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readSource(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.builder.ReadSource(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) searchPages(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.manifest.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBacklinks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.HasSuffix(path, site.SourceExt) {
		path = site.OutputPath(path)
	}
	bl, err := s.manifest.Backlinks(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := s.builder.CreateSource(ctx, path, []byte(content))
	switch {
	case errors.Is(err, apperr.ErrAlreadyExists):
		return mcp.NewToolResultError(fmt.Sprintf("page already exists: %s", path)), nil
	case err != nil:
		var perr *ley.ParseError
		if errors.As(err, &perr) {
			return parseErrorResult(perr), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s -> %s", page.Source, page.Output)), nil
}

func (s *Server) getSyntax(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SyntaxGuide), nil
}

func (s *Server) readSyntaxResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      syntaxURI,
			MIMEType: "text/markdown",
			Text:     SyntaxGuide,
		},
	}, nil
}

func parseErrorResult(err error) *mcp.CallToolResult {
	var perr *ley.ParseError
	if errors.As(err, &perr) {
		return mcp.NewToolResultError(fmt.Sprintf("parse error (%s): %s", perr.Kind, perr.Error()))
	}
	return mcp.NewToolResultError(err.Error())
}
