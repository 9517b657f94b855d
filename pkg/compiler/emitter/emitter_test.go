package emitter_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/agenthands/mathlamp/pkg/compiler/emitter"
	"github.com/agenthands/mathlamp/pkg/compiler/parser"
	"github.com/agenthands/mathlamp/pkg/vm"
)

func TestEmitterBasic(t *testing.T) {
	prog, err := parser.Parse([]byte("a = 1 + 2; print(a % 1); a;"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	bc, err := emitter.NewEmitter().Emit(prog)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	expectedOps := []uint8{
		vm.OP_PUSH_C,
		vm.OP_PUSH_C,
		vm.OP_ADD,
		vm.OP_STORE_G,
		vm.OP_LOAD_G,
		vm.OP_PUSH_C,
		vm.OP_MOD,
		vm.OP_PRINT,
		vm.OP_LOAD_G,
		vm.OP_DROP,
		vm.OP_HALT,
	}

	if len(bc.Instructions) != len(expectedOps) {
		t.Fatalf("expected %d instructions, got %d", len(expectedOps), len(bc.Instructions))
	}
	if len(bc.Positions) != len(bc.Instructions) {
		t.Fatalf("expected one position per instruction, got %d for %d", len(bc.Positions), len(bc.Instructions))
	}

	for i, op := range expectedOps {
		gotOp, _ := vm.Decode(bc.Instructions[i])
		if gotOp != op {
			t.Errorf("instr %d: expected op 0x%02x, got 0x%02x", i, op, gotOp)
		}
	}

	// The literal 1 is pooled once, the name a once.
	if len(bc.Constants) != 2 {
		t.Errorf("expected 2 constants, got %d", len(bc.Constants))
	}
	if len(bc.Names) != 1 || bc.Names[0] != "a" {
		t.Errorf("expected names [a], got %v", bc.Names)
	}
}

func TestEmitterPositions(t *testing.T) {
	prog, err := parser.Parse([]byte("x = 1;\nprint(x / 2);"))
	if err != nil {
		t.Fatal(err)
	}
	bc, err := emitter.NewEmitter().Emit(prog)
	if err != nil {
		t.Fatal(err)
	}

	for i, instr := range bc.Instructions {
		if op, _ := vm.Decode(instr); op == vm.OP_DIV {
			pos := bc.Positions[i]
			if pos.Line != 2 || pos.Column != 9 {
				t.Errorf("expected DIV at 2:9, got %d:%d", pos.Line, pos.Column)
			}
			return
		}
	}
	t.Errorf("no DIV instruction emitted")
}

func TestEmitterEmptyProgram(t *testing.T) {
	prog, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	bc, err := emitter.NewEmitter().Emit(prog)
	if err != nil {
		t.Fatal(err)
	}
	if len(bc.Instructions) != 1 {
		t.Fatalf("expected lone HALT, got %d instructions", len(bc.Instructions))
	}
	if op, _ := vm.Decode(bc.Instructions[0]); op != vm.OP_HALT {
		t.Errorf("expected HALT, got 0x%02x", op)
	}
}

func TestEmitterRejectsDeepExpressions(t *testing.T) {
	// 1 + (1 + (1 + ...)) keeps every left operand on the stack.
	depth := vm.StackDepth + 1
	src := strings.Repeat("1 + (", depth) + "1" + strings.Repeat(")", depth) + ";"

	prog, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = emitter.NewEmitter().Emit(prog)
	if !errors.Is(err, emitter.ErrTooDeep) {
		t.Errorf("expected ErrTooDeep, got %v", err)
	}
}

func distinctLiterals(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "x = %d;\n", i)
	}
	// Repeat a few so dedup is exercised on a large pool.
	b.WriteString("x = 0; x = 7; x = 59999;\n")
	return b.String()
}

func TestEmitterManyConstants(t *testing.T) {
	const n = 60000
	prog, err := parser.Parse([]byte(distinctLiterals(n)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	bc, err := emitter.NewEmitter().Emit(prog)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if len(bc.Constants) != n {
		t.Fatalf("expected %d constants, got %d", n, len(bc.Constants))
	}

	// Every PUSH_C must load the literal its statement wrote.
	want := make([]int64, 0, n+3)
	for i := 0; i < n; i++ {
		want = append(want, int64(i))
	}
	want = append(want, 0, 7, 59999)

	var got []int64
	for _, ins := range bc.Instructions {
		if op, arg := vm.Decode(ins); op == vm.OP_PUSH_C {
			got = append(got, bc.Constants[arg].Int())
		}
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d pushes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("push %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func BenchmarkEmitDistinctLiterals(b *testing.B) {
	prog, err := parser.Parse([]byte(distinctLiterals(60000)))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := emitter.NewEmitter().Emit(prog); err != nil {
			b.Fatal(err)
		}
	}
}
