package email

const subjectReport = "Seu Resultado - Diagnóstico de Maturidade em Vendas B2B"
