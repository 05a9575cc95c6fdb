package models

import "time"

// ScanResult é o que o front-end recebe depois que o nmap termina.
type ScanResult struct {
	Output string `json:"output"` // stdout do processo.
	Error  string `json:"error"`  // stderr do processo.
}

// ScanJob é uma requisição de scan vinda da fila SQS.
type ScanJob struct {
	ScanID        string    `json:"scan_id"`
	Target        string    `json:"target"`
	RequestedAt   time.Time `json:"requested_at"`
	ReceiptHandle string    `json:"-"` // Usado para apagar a mensagem da fila.
}

// ScanReply é a resposta publicada na fila de retorno.
type ScanReply struct {
	ScanID     string    `json:"scan_id"`
	Target     string    `json:"target"`
	Output     string    `json:"output,omitempty"`
	Error      string    `json:"error,omitempty"`
	Failure    string    `json:"failure,omitempty"` // Texto da falha quando não há resultado (nmap não iniciou ou estourou o tempo).
	FinishedAt time.Time `json:"finished_at"`
}
