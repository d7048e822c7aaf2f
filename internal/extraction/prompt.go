package extraction

import "fmt"

// Field names the model is asked to fill. They are part of the wire contract with the model.
const (
	fieldAmount       = "valor"
	fieldReceiver     = "recebedor"
	fieldBank         = "banco"
	fieldPayer        = "pagador"
	fieldReferenceID  = "id_transacao"
	fieldDeclaredDate = "data_texto"
	fieldError        = "erro"
	fieldErrorAlt     = "error"
)

// BuildPrompt returns the fixed instruction sent with every receipt image.
func BuildPrompt(beneficiary string) string {
	return "TASK: OCR and Information Extraction.\n" +
		"INSTRUCTIONS:\n" +
		"1. Analyze the receipt image provided.\n" +
		"2. Extract the following fields into a raw JSON format only.\n" +
		"3. Do not include markdown formatting (```json) or conversational text.\n" +
		fmt.Sprintf("4. Fields required: '%s' (float), '%s' (string), '%s' (string), '%s' (string), '%s' (string), '%s' (string dd/mm/yyyy).\n",
			fieldAmount, fieldReceiver, fieldBank, fieldPayer, fieldReferenceID, fieldDeclaredDate) +
		fmt.Sprintf("5. Verify if the receiver matches '%s' or parts of this name.\n", beneficiary) +
		fmt.Sprintf("6. If the image is not a payment receipt, answer {\"%s\": \"reason\"}.", fieldError)
}
