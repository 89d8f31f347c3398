package model

import "testing"

func TestNotaConceitoBands(t *testing.T) {
	cases := []struct {
		nota float64
		want string
	}{
		{10, ConceitoExcelente},
		{9.0, ConceitoExcelente}, // lower edge inclusive
		{8.9, ConceitoBom},
		{7.0, ConceitoBom},
		{6.9, ConceitoRegular},
		{5.0, ConceitoRegular},
		{4.9, ConceitoInsuficiente},
		{0, ConceitoInsuficiente},
	}
	for _, tc := range cases {
		if got := (Nota{Nota: tc.nota}).Conceito(); got != tc.want {
			t.Errorf("Conceito(%.1f): expected %q, got %q", tc.nota, tc.want, got)
		}
	}
}

func TestNotaView(t *testing.T) {
	n := Nota{ID: 4, Nota: 7.5, AlunoID: 2, AtividadeID: 3}
	v := n.View()
	if v.ID != 4 || v.Nota != 7.5 || v.AlunoID != 2 || v.AtividadeID != 3 {
		t.Errorf("view lost fields: %+v", v)
	}
	if v.Conceito != ConceitoBom {
		t.Errorf("expected conceito %q, got %q", ConceitoBom, v.Conceito)
	}
}
