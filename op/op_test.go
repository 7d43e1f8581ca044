package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		kind     Kind
		implicit int
		wide     bool
	}{
		{Nop, "nop", KindOther, -1, false},
		{Jsr, "jsr", KindCall, -1, false},
		{JsrW, "jsr_w", KindCall, -1, false},
		{Ret, "ret", KindRet, -1, false},
		{Goto, "goto", KindJump, -1, false},
		{GotoW, "goto_w", KindJump, -1, false},
		{Tableswitch, "tableswitch", KindSwitch, -1, false},
		{Lookupswitch, "lookupswitch", KindSwitch, -1, false},
		{Ifeq, "ifeq", KindCondBranch, -1, false},
		{Ifnonnull, "ifnonnull", KindCondBranch, -1, false},
		{Return, "return", KindReturn, -1, false},
		{Areturn, "areturn", KindReturn, -1, false},
		{Athrow, "athrow", KindThrow, -1, false},
		{Iload, "iload", KindLocal, -1, false},
		{Aload2, "aload_2", KindLocal, 2, false},
		{Astore, "astore", KindLocal, -1, false},
		{Astore3, "astore_3", KindLocal, 3, false},
		{Lload, "lload", KindLocal, -1, true},
		{Dstore1, "dstore_1", KindLocal, 1, true},
		{Iinc, "iinc", KindLocal, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.code, info.Code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.kind, info.Kind)
			require.Equal(t, tt.implicit, info.ImplicitSlot)
			require.Equal(t, tt.wide, info.WideLocal)
		})
	}
}

func TestGetInfoUnknown(t *testing.T) {
	// 0xba is unused in the JVM instruction set.
	info := GetInfo(Code(0xba))
	require.Equal(t, "unknown", info.Name)
	require.Equal(t, KindOther, info.Kind)
	require.Equal(t, -1, info.ImplicitSlot)
}

func TestByName(t *testing.T) {
	c, ok := ByName("jsr")
	require.True(t, ok)
	require.Equal(t, Jsr, c)

	c, ok = ByName("lstore_2")
	require.True(t, ok)
	require.Equal(t, Lstore2, c)

	_, ok = ByName("frobnicate")
	require.False(t, ok)
}

func TestIsReturnAddressStore(t *testing.T) {
	require.True(t, IsReturnAddressStore(Astore))
	require.True(t, IsReturnAddressStore(Astore0))
	require.True(t, IsReturnAddressStore(Astore3))
	require.False(t, IsReturnAddressStore(Istore))
	require.False(t, IsReturnAddressStore(Aload))
	require.False(t, IsReturnAddressStore(Ret))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "call", KindCall.String())
	require.Equal(t, "ret", KindRet.String())
	require.Equal(t, "switch", KindSwitch.String())
	require.Equal(t, "other", KindOther.String())
}
