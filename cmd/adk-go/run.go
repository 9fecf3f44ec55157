// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by terms
// of License Agreement, which you can find at LICENSE files.

//go:build adk

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	mcpserver "github.com/H0llyW00dzZ/gramps-mcp/src/mcp-server"
	mcptransport "github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/mcptoolset"
	"google.golang.org/genai"
)

// This example demonstrates how to use the genealogy MCP tools with ADK.
// It builds an in-memory MCP server connected to a Gramps Web record store
// and hands its toolset to a Gemini-backed agent.
//
// Prerequisites:
// - Set GOOGLE_API_KEY environment variable
// - Set GRAMPS_API_URL, GRAMPS_USERNAME, GRAMPS_PASSWORD (or a config file
//   via GRAMPS_MCP_CONFIG_FILE) so the server can reach the record store

func localMCPTransport(ctx context.Context) mcptransport.Transport {
	transport, err := mcpserver.NewADKTransportBuilder().
		WithInMemoryTransport().
		BuildTransport(ctx)
	if err != nil {
		log.Fatalf("Failed to build MCP transport: %v", err)
	}
	return transport
}

func main() {
	// Create context that cancels on interrupt signal (Ctrl+C)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Check for required environment variables
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Fatal("GOOGLE_API_KEY environment variable must be set")
	}

	// 1. Verify transport works by listing tools using official SDK client
	log.Println("Verifying MCP transport and tools...")
	verifyTransport(ctx)

	// 2. Initialize ADK toolset with a fresh transport
	log.Println("Initializing ADK toolset...")
	transport := localMCPTransport(ctx)

	mcpToolSet, err := mcptoolset.New(mcptoolset.Config{
		Transport: transport,
	})
	if err != nil {
		log.Fatalf("Failed to create MCP tool set: %v", err)
	}

	log.Printf("Genealogy MCP transport created and connected successfully")

	// 3. Create Gemini model
	model, err := gemini.NewModel(ctx, "gemini-2.5-flash", &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		log.Fatalf("Failed to create model: %v", err)
	}

	// 4. Create Agent
	a, err := llmagent.New(llmagent.Config{
		Name:        "genealogy_agent",
		Model:       model,
		Description: "Agent for exploring a genealogy record store.",
		Instruction: "You are a helpful genealogy research assistant. Use the available tools to find people, walk their lineages, and answer questions about family relationships. When asked about tools, list them.",
		Toolsets:    []tool.Toolset{mcpToolSet},
	})
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	// 5. Create Session Service and Runner
	sessionSvc := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        "gramps-adk-example",
		Agent:          a,
		SessionService: sessionSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create runner: %v", err)
	}

	sessResp, err := sessionSvc.Create(ctx, &session.CreateRequest{
		AppName: "gramps-adk-example",
		UserID:  "test-user",
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	sessionID := sessResp.Session.ID()
	log.Printf("Created session: %s", sessionID)

	// 6. Run a test query
	prompt := "What tools are available to you for genealogy research?"
	log.Printf("Running agent with prompt: %q", prompt)

	userMsg := genai.NewContentFromText(prompt, "user")

	runConfig := agent.RunConfig{
		StreamingMode: agent.StreamingModeSSE,
	}

	log.Println("--- Agent Response ---")
	for event, err := range r.Run(ctx, "test-user", sessionID, userMsg, runConfig) {
		if err != nil {
			log.Printf("\nAgent error: %v", err)
			break
		}

		if event.LLMResponse.Partial {
			if event.LLMResponse.Content != nil {
				for _, part := range event.LLMResponse.Content.Parts {
					fmt.Print(part.Text)
				}
			}
		}
	}
	fmt.Println("\n----------------------")
	log.Println("Agent execution completed")
}

func verifyTransport(ctx context.Context) {
	transport := localMCPTransport(ctx)

	client := mcptransport.NewClient(&mcptransport.Implementation{
		Name:    "verifier",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Verification failed: connect: %v", err)
	}
	defer session.Close()

	listParams := mcptransport.ListToolsParams{}
	result, err := session.ListTools(ctx, &listParams)
	if err != nil {
		log.Fatalf("Verification failed: list tools: %v", err)
	}

	log.Printf("Available Tools (%d):", len(result.Tools))
	for _, tool := range result.Tools {
		log.Printf("- %s: %s", tool.Name, tool.Description)
	}
	log.Println("Transport verification successful.")
}
