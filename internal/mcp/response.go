package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// createJSONResponse creates a standardized JSON response for MCP tools.
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse creates a standardized error response for MCP tools.
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	errorData := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	}

	response, marshalErr := createJSONResponse(errorData)
	if marshalErr != nil {
		return nil, marshalErr
	}

	// Per the MCP spec, tool-originated errors go inside the result object
	// with IsError=true rather than as a protocol-level error, so the
	// calling model can see and self-correct on them.
	response.IsError = true

	return response, nil
}

// createSmartErrorResponse creates an enhanced error response with
// context-aware suggestions for the Refactor API / Agent Orchestrator
// tools.
func createSmartErrorResponse(operation string, err error, context map[string]interface{}) (*mcp.CallToolResult, error) {
	errorData := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	}

	if suggestions := generateErrorSuggestions(operation, err); len(suggestions) > 0 {
		errorData["suggestions"] = suggestions
	}
	if help := getOperationHelp(operation); help != "" {
		errorData["help"] = help
	}
	if related := getRelatedOperations(operation); len(related) > 0 {
		errorData["related_operations"] = related
	}
	if len(context) > 0 {
		errorData["context"] = context
	}

	response, marshalErr := createJSONResponse(errorData)
	if marshalErr != nil {
		return nil, marshalErr
	}
	response.IsError = true

	return response, nil
}

// generateErrorSuggestions generates context-aware suggestions for common
// Refactor API / Agent Orchestrator errors.
func generateErrorSuggestions(operation string, err error) []string {
	var suggestions []string
	errorMsg := err.Error()

	switch operation {
	case "plan_rename":
		if strings.Contains(errorMsg, "not found") {
			suggestions = append(suggestions, "Use the symbol's exact indexed name; renaming is case-sensitive")
		}
	case "plan_imports":
		suggestions = append(suggestions, "old_path and new_path must match how the import appears in source, quotes excluded")
	case "refactor_apply":
		suggestions = append(suggestions, "Apply a plan only once; a stale plan may no longer match the indexed content")
	case "agent_run":
		suggestions = append(suggestions, "agent_name must be a name registered with the Agent Orchestrator")
	case "analyze_complexity":
		suggestions = append(suggestions, "path must be a file the Language Registry recognizes by extension")
	}

	return suggestions
}

// getOperationHelp provides a one-line description of each intel tool.
func getOperationHelp(operation string) string {
	helpMap := map[string]string{
		"plan_rename":    "Plan a transactional, multi-file symbol rename; apply the returned plan with refactor_apply.",
		"plan_imports":   "Plan a project-wide import path rewrite after a file or package move.",
		"refactor_apply": "Apply a RefactorPlan from plan_rename or plan_imports across every affected file.",
		"agent_run":          "Run a named agent through the Agent Orchestrator and return its terminal result.",
		"analyze_complexity": "Report cyclomatic/cognitive complexity for every function in a file.",
	}
	return helpMap[operation]
}

// getRelatedOperations suggests related intel tools.
func getRelatedOperations(operation string) []string {
	relatedMap := map[string][]string{
		"plan_rename":    {"refactor_apply"},
		"plan_imports":   {"refactor_apply"},
		"refactor_apply": {"plan_rename", "plan_imports"},
	}
	return relatedMap[operation]
}
