package config

import "testing"

// TestDemoLayoutFitsUpperHalf 演示元素都位于视口上半部分
func TestDemoLayoutFitsUpperHalf(t *testing.T) {
	lastLabelTop := LabelGridStartY + float64(LabelGridRows-1)*LabelCellHeight
	if lastLabelTop >= MaxLabelTop {
		t.Errorf("last label row top %.0f should be above %d", lastLabelTop, MaxLabelTop)
	}
	if BlockRowY >= MaxLabelTop {
		t.Errorf("block row top %.0f should be above %d", BlockRowY, MaxLabelTop)
	}

	rightEdge := LabelGridStartX + float64(LabelGridColumns)*LabelCellWidth
	if rightEdge > GameWindowWidth {
		t.Errorf("label grid right edge %.0f exceeds window width %d", rightEdge, GameWindowWidth)
	}
}
