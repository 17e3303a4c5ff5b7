package services

import (
	"testing"

	"github.com/savingsboard/core/internal/domain/entities"
)

func boardWith(values ...int) *entities.Board {
	b := entities.NewBoard()
	for _, v := range values {
		b.Toggle(v)
	}
	return b
}

func TestPresenterFormatMoney(t *testing.T) {
	tests := []struct {
		locale string
		symbol string
		amount float64
		want   string
	}{
		{locale: "pt-BR", symbol: "R$", amount: 20000, want: "R$ 20.000,00"},
		{locale: "pt-BR", symbol: "R$", amount: 205, want: "R$ 205,00"},
		{locale: "pt-BR", symbol: "R$", amount: 0, want: "R$ 0,00"},
		{locale: "en-US", symbol: "$", amount: 20100, want: "$ 20,100.00"},
		{locale: "en-US", symbol: "", amount: 1234.5, want: "1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.want, func(t *testing.T) {
			p, err := NewPresenter(tt.locale, tt.symbol)
			if err != nil {
				t.Fatalf("NewPresenter: %v", err)
			}
			if got := p.FormatMoney(tt.amount); got != tt.want {
				t.Errorf("FormatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestPresenterRejectsBadLocale(t *testing.T) {
	if _, err := NewPresenter("not a locale!", "R$"); err == nil {
		t.Fatal("NewPresenter accepted an invalid locale")
	}
}

func TestPresenterViewPortuguese(t *testing.T) {
	p, err := NewPresenter("pt-BR", "R$")
	if err != nil {
		t.Fatalf("NewPresenter: %v", err)
	}

	view := p.View(boardWith(5, 200))

	if view.Phase != entities.PhaseReady {
		t.Errorf("phase = %s", view.Phase)
	}
	if view.Title != "DESAFIO DOS 200 DEPÓSITOS" {
		t.Errorf("title = %q", view.Title)
	}
	if view.GoalLabel != "Meta: R$ 20.000,00" {
		t.Errorf("goal label = %q", view.GoalLabel)
	}
	if view.TotalLabel != "R$ 205,00" {
		t.Errorf("total label = %q", view.TotalLabel)
	}
	if view.CountLabel != "2 de 200 valores (1.0%)" {
		t.Errorf("count label = %q", view.CountLabel)
	}
	if view.GoalPercentLabel != "1.0% da meta" {
		t.Errorf("goal percent label = %q", view.GoalPercentLabel)
	}
	if len(view.Cells) != entities.DepositCount {
		t.Fatalf("cells = %d", len(view.Cells))
	}
	if !view.Cells[4].Selected || view.Cells[4].Value != 5 || view.Cells[5].Selected {
		t.Errorf("cells around 5 = %+v %+v", view.Cells[4], view.Cells[5])
	}
	if !view.Cells[199].Selected {
		t.Errorf("cell 200 not selected")
	}
	if len(view.Hints) != 3 || view.Hints[2] != "Total de 200 valores disponíveis" {
		t.Errorf("hints = %q", view.Hints)
	}
	if got := p.Labels().Confirm; got != "Tem certeza que deseja resetar todo o progresso?" {
		t.Errorf("confirm label = %q", got)
	}
}

func TestPresenterViewEnglishUncappedGoalPercent(t *testing.T) {
	p, err := NewPresenter("en-US", "$")
	if err != nil {
		t.Fatalf("NewPresenter: %v", err)
	}

	all := make([]int, 0, entities.DepositCount)
	for v := entities.MinDeposit; v <= entities.MaxDeposit; v++ {
		all = append(all, v)
	}
	view := p.View(boardWith(all...))

	if view.Title != "200 DEPOSITS CHALLENGE" {
		t.Errorf("title = %q", view.Title)
	}
	if view.ProgressPercent != 100 {
		t.Errorf("progress = %v, want 100", view.ProgressPercent)
	}
	if view.GoalPercentLabel != "100.5% of goal" {
		t.Errorf("goal percent label = %q", view.GoalPercentLabel)
	}
	if view.CountLabel != "200 of 200 values (100.0%)" {
		t.Errorf("count label = %q", view.CountLabel)
	}
	if view.Count != 200 || len(view.Selected) != 200 {
		t.Errorf("count = %d, selected = %d", view.Count, len(view.Selected))
	}
}

func TestPresenterLoadingView(t *testing.T) {
	p, err := NewPresenter("pt-BR", "R$")
	if err != nil {
		t.Fatalf("NewPresenter: %v", err)
	}

	view := p.LoadingView()
	if view.Phase != entities.PhaseLoading || len(view.Cells) != 0 {
		t.Fatalf("loading view = %+v", view)
	}
	if p.Labels().Loading != "Carregando..." {
		t.Errorf("loading label = %q", p.Labels().Loading)
	}
}
