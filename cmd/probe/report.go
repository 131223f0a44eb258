package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
)

type row struct {
	Text   string
	Result *sentiment.Result
	Err    error
}

var sentimentStyles = map[sentiment.Sentiment]color.Style{
	sentiment.Negative: color.New(color.FgRed, color.OpBold),
	sentiment.Neutral:  color.New(color.FgYellow),
	sentiment.Positive: color.New(color.FgGreen, color.OpBold),
}

func render(w io.Writer, rows []row, colours bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Text", "Sentiment", "Confidence", "Negative", "Neutral", "Positive"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, r := range rows {
		if r.Err != nil {
			label := "error"
			if colours {
				label = color.New(color.FgRed).Render(label)
			}
			table.Append([]string{r.Text, label, r.Err.Error(), "", "", ""})
			continue
		}

		label := string(r.Result.Sentiment)
		if style, ok := sentimentStyles[r.Result.Sentiment]; ok && colours {
			label = style.Render(label)
		}
		table.Append([]string{
			r.Text,
			label,
			formatScore(r.Result.Confidence),
			formatScore(r.Result.Scores[sentiment.Negative]),
			formatScore(r.Result.Scores[sentiment.Neutral]),
			formatScore(r.Result.Scores[sentiment.Positive]),
		})
	}

	table.Render()
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
