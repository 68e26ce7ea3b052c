package scan

import "strings"

// buildScanPrompt constructs the extraction prompt. The model must answer
// with a single strict JSON object whose keys match the transaction field
// names; fields it cannot read from the document are omitted, never
// guessed.
func buildScanPrompt() string {
	var b strings.Builder

	b.WriteString("You are a data-entry assistant for a real estate commission tracker.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Read the attached real estate document (closing statement, purchase agreement, commission disbursement, or referral agreement).\n")
	b.WriteString("- Extract the transaction details listed below.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a single JSON object.\n\n")

	b.WriteString("The object may contain these fields (omit any field the document does not state):\n")
	b.WriteString("- \"transactionType\": string, one of \"Sale\", \"Referral Received\", \"Referral Paid\"\n")
	b.WriteString("- \"brokerage\": string, e.g. \"Keller Williams\" or \"Bennion Deville Homes\"\n")
	b.WriteString("- \"clientType\": string, \"Buyer\" or \"Seller\"\n")
	b.WriteString("- \"status\": string, \"Closed\", \"Pending\" or \"Active\"\n")
	b.WriteString("- \"propertyType\": string\n")
	b.WriteString("- \"source\": string\n")
	b.WriteString("- \"address\": string\n")
	b.WriteString("- \"city\": string\n")
	b.WriteString("- \"referringAgent\": string\n")
	b.WriteString("- \"listDate\": string, ISO format \"YYYY-MM-DD\"\n")
	b.WriteString("- \"closingDate\": string, ISO format \"YYYY-MM-DD\"\n")
	b.WriteString("- \"listPrice\": number\n")
	b.WriteString("- \"closedPrice\": number\n")
	b.WriteString("- \"commissionPct\": number, where 3.0 means 3%\n")
	b.WriteString("- \"referralPct\": number\n")
	b.WriteString("- \"referralFeeReceived\": number\n")
	b.WriteString("- \"confidence\": number from 0 to 100, your overall extraction confidence (always include this)\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Amounts are plain numbers without currency symbols or thousands separators.\n")
	b.WriteString("- Never invent a value; omit fields you cannot read from the document.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Do NOT use ```json or any Markdown.\n")
	b.WriteString("- Output must begin with \"{\" and end with \"}\".\n")

	return b.String()
}
