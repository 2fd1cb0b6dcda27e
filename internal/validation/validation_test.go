package validation_test

import (
	"strconv"
	"testing"

	"github.com/caiomioto2/workshop-athena-checkout/internal/validation"

	"github.com/stretchr/testify/require"
)

func TestCPF(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc  string
		input string
		valid bool
	}{
		{desc: "valid with formatting", input: "111.444.777-35", valid: true},
		{desc: "valid digits only", input: "11144477735", valid: true},
		{desc: "all identical digits", input: "111.111.111-11", valid: false},
		{desc: "wrong check digits", input: "123.456.789-00", valid: false},
		{desc: "too short", input: "1114447773", valid: false},
		{desc: "too long", input: "111444777350", valid: false},
		{desc: "empty", input: "", valid: false},
		{desc: "letters only", input: "abc.def.ghi-jk", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.valid, validation.CPF(tc.input))
		})
	}
}

// Brute-force the check-digit algorithm against an independent
// implementation for a spread of 9-digit roots.
func TestCPF_CheckDigitAlgorithm(t *testing.T) {
	t.Parallel()

	roots := []string{"111444777", "529982247", "123456789", "000000001", "987654321"}

	for _, root := range roots {
		d1 := referenceDigit(root, 10)
		d2 := referenceDigit(root+strconv.Itoa(d1), 11)
		full := root + strconv.Itoa(d1) + strconv.Itoa(d2)

		require.True(t, validation.CPF(full), "expected %s to be valid", full)

		// Flipping the last digit must invalidate it.
		bad := full[:10] + strconv.Itoa((d2+1)%10)
		require.False(t, validation.CPF(bad), "expected %s to be invalid", bad)
	}
}

func referenceDigit(digits string, startWeight int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * (startWeight - i)
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

func TestPhone(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		valid bool
	}{
		{input: "11999998888", valid: true},
		{input: "1199998888", valid: true},
		{input: "(11) 99999-8888", valid: true},
		{input: "119999", valid: false},
		{input: "1199999888899", valid: false},
		{input: "", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.valid, validation.Phone(tc.input))
		})
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	require.True(t, validation.Email("a@b.com"))
	require.True(t, validation.Email("ana.silva+tag@sub.domain.com.br"))
	require.False(t, validation.Email("not-an-email"))
	require.False(t, validation.Email("a b@c.com"))
	require.False(t, validation.Email("a@b"))
	require.False(t, validation.Email(""))
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	res := validation.Checkout("Ana Silva", "ana@test.com", "11999998888", "11144477735")
	require.True(t, res.Valid)

	res = validation.Checkout("Ana Silva", "ana@test.com", "11999998888", "")
	require.True(t, res.Valid, "document is optional at form level")

	res = validation.Checkout("", "ana@test.com", "11999998888", "")
	require.False(t, res.Valid)
	require.Equal(t, "name", res.Field)

	res = validation.Checkout("Ana", "nope", "11999998888", "")
	require.False(t, res.Valid)
	require.Equal(t, "email", res.Field)

	res = validation.Checkout("Ana", "ana@test.com", "119", "")
	require.False(t, res.Valid)
	require.Equal(t, "phone", res.Field)

	res = validation.Checkout("Ana", "ana@test.com", "11999998888", "12345678900")
	require.False(t, res.Valid)
	require.Equal(t, "document", res.Field)
	require.NotEmpty(t, res.Message)
}

func TestDigits(t *testing.T) {
	t.Parallel()

	require.Equal(t, "11999998888", validation.Digits("(11) 99999-8888"))
	require.Equal(t, "11144477735", validation.Digits("111.444.777-35"))
	require.Equal(t, "", validation.Digits("abc"))
}
