package operator

import "testing"

func TestClassifyDotUnspacedBindsTighterThanApplication(t *testing.T) {
	prec, _ := classify(".", false, false)
	if prec <= applicationPrec {
		t.Errorf("unspaced . precedence = %d, want > applicationPrec (%d)", prec, applicationPrec)
	}
}

func TestClassifyMultiplyBindsTighterThanPlus(t *testing.T) {
	mul, _ := classify("*", false, false)
	add, _ := classify("+", false, false)
	if mul <= add {
		t.Errorf("* precedence (%d) must exceed + precedence (%d)", mul, add)
	}
}

func TestClassifyArrowIsRightAssociative(t *testing.T) {
	_, assoc := classify("-->", false, false)
	if assoc != Right {
		t.Errorf("--> associativity = %v, want Right", assoc)
	}
}

func TestDemoteClampsAsymmetricSpacing(t *testing.T) {
	// Only a precedence above applicationPrec-1 is actually affected by
	// asymmetric spacing; lower-precedence operators like + are already
	// below the clamp and pass through unchanged either way.
	const highPrec = 95
	spacedBoth, _ := demote(highPrec, Left, true, true)
	asymmetric, _ := demote(highPrec, Left, true, false)
	if spacedBoth != highPrec {
		t.Errorf("symmetric spacing changed precedence to %d, want unchanged %d", spacedBoth, highPrec)
	}
	if asymmetric >= spacedBoth {
		t.Errorf("asymmetric-spacing precedence (%d) should demote below symmetric spacing (%d)", asymmetric, spacedBoth)
	}
	if asymmetric >= applicationPrec {
		t.Errorf("demoted precedence (%d) should fall below applicationPrec (%d)", asymmetric, applicationPrec)
	}
}

func TestIsArrowRejectsNonArrowSuffix(t *testing.T) {
	for _, text := range []string{"-->", "--->", "->"} {
		if !isArrow(text) {
			t.Errorf("isArrow(%q) = false, want true", text)
		}
	}
	for _, text := range []string{"--", "+>", ">", "-"} {
		if isArrow(text) {
			t.Errorf("isArrow(%q) = true, want false", text)
		}
	}
}

func TestSameClassGroupsOperatorsByPrecedence(t *testing.T) {
	if !sameClass("+", "-") {
		t.Error("sameClass(+, -) = false, want true (both additive)")
	}
	if sameClass("+", "*") {
		t.Error("sameClass(+, *) = true, want false (different precedence classes)")
	}
}
