package commandstructure

import (
	"errors"
	"testing"
)

func TestCommandInvoker_EmptyCommandList(t *testing.T) {
	invoker := NewCommandInvoker([]Command{})
	testData := []byte("test data")
	result, err := invoker.Execute(testData)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if string(result) != string(testData) {
		t.Error("Expected result to match input for empty command list")
	}
}

func TestCommandInvoker_CommandError(t *testing.T) {
	cause := errors.New("invalid image data")
	invoker := NewCommandInvoker([]Command{newMockCommandWithError("TestCommand", cause)})

	_, err := invoker.Execute([]byte("invalid image data"))
	if !errors.Is(err, cause) {
		t.Errorf("Expected wrapped command error, got %v", err)
	}
}

func TestCommandInvoker_MultipleCommands(t *testing.T) {
	cmd1 := &mockCommand{
		name: "Command1",
		executeFunc: func(data []byte) ([]byte, error) {
			return append(data, []byte("-cmd1")...), nil
		},
	}
	cmd2 := &mockCommand{
		name: "Command2",
		executeFunc: func(data []byte) ([]byte, error) {
			return append(data, []byte("-cmd2")...), nil
		},
	}

	invoker := NewCommandInvoker([]Command{cmd1, cmd2})
	result, err := invoker.Execute([]byte("start"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result) != "start-cmd1-cmd2" {
		t.Errorf("Expected 'start-cmd1-cmd2', got '%s'", string(result))
	}

	names := invoker.Names()
	if len(names) != 2 || names[0] != "Command1" || names[1] != "Command2" {
		t.Errorf("Unexpected names %v", names)
	}
	if invoker.Len() != 2 {
		t.Errorf("Expected Len 2, got %d", invoker.Len())
	}
}

func TestNewCommandInvokerFromConfigs(t *testing.T) {
	registry := NewCommandRegistry()
	err := registry.Register("TestCommand", func(params map[string]any) (Command, error) {
		if err := ValidateRequiredParams(params, []string{"required_param"}); err != nil {
			return nil, err
		}
		return newMockCommand("TestCommand"), nil
	})
	if err != nil {
		t.Fatalf("Failed to register test command: %v", err)
	}

	t.Run("valid", func(t *testing.T) {
		invoker, err := NewCommandInvokerFromConfigs(registry, []CommandConfig{
			{Name: "TestCommand", Params: map[string]any{"required_param": 1}},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if invoker.Len() != 1 {
			t.Errorf("Expected 1 command, got %d", invoker.Len())
		}
	})

	t.Run("missing param", func(t *testing.T) {
		_, err := NewCommandInvokerFromConfigs(registry, []CommandConfig{
			{Name: "TestCommand", Params: map[string]any{}},
		})
		if err == nil {
			t.Error("Expected error for invalid command configuration")
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := NewCommandInvokerFromConfigs(registry, []CommandConfig{
			{Name: "UnknownCommand"},
		})
		if err == nil {
			t.Error("Expected error for unknown command")
		}
	})
}
