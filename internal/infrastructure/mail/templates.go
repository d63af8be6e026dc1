package mail

import "fmt"

// ServiceDocsEmail builds the message sent to a client when their
// appointment is finalized, with the billing document and warranty
// certificate attached.
func ServiceDocsEmail(clientName string, hasInvoice bool) (subject, html string) {
	docName := "Recibo"
	if hasInvoice {
		docName = "Factura"
	}
	subject = "Documentación de tu servicio"
	html = fmt.Sprintf(`
    <h2 style="color:#2b6cb0;">¡Gracias por confiar en nosotros, %s!</h2>
    <p>Adjuntamos la documentación de tu servicio:</p>
    <ul>
      <li>%s</li>
      <li>Certificado de Garantía (si aplica)</li>
    </ul>
    <hr style="margin:18px 0;"/>
    <h3 style="color:#2b6cb0;">Cuidados y recomendaciones para tu lámina solar</h3>
    <ul style="font-size:1em;">
      <li><b>Limpieza:</b> usa únicamente productos neutros sin amoníaco y paños de microfibra.</li>
      <li><b>Evita:</b> productos abrasivos, herramientas punzantes o estropajos.</li>
      <li><b>Curado:</b> no manipules la lámina durante el proceso de curado, de 3 a 7 días tras la instalación.</li>
      <li><b>Garantía:</b> válida únicamente si la instalación y manipulación la realiza nuestro taller.</li>
    </ul>
    <hr style="margin:18px 0;"/>
    <p style="font-size:1.1em;">¿Tienes dudas o necesitas ayuda?<br>Estamos a tu disposición para cualquier consulta o gestión de garantía.</p>
    <p style="font-size:1.1em;">¡Gracias por elegirnos!</p>`, clientName, docName)
	return subject, html
}

// InvoiceCopyEmail builds the message carrying an invoice the client
// asked for, either a conversion from a receipt or a re-sent copy.
func InvoiceCopyEmail(clientName, invoiceNumber string) (subject, html string) {
	subject = "Tu factura " + invoiceNumber
	html = fmt.Sprintf(`
    <h2 style="color:#2b6cb0;">Hola, %s</h2>
    <p>Como nos solicitaste, te adjuntamos la factura <b>%s</b>.</p>
    <p>Si procede de un recibo, el recibo original queda anulado a efectos de facturación.</p>
    <p style="font-size:1.1em;">¡Gracias por confiar en nosotros!</p>`, clientName, invoiceNumber)
	return subject, html
}

// ReceiptCopyEmail builds the message carrying a re-sent receipt
func ReceiptCopyEmail(clientName, receiptNumber string) (subject, html string) {
	subject = "Tu recibo " + receiptNumber
	html = fmt.Sprintf(`
    <h2 style="color:#2b6cb0;">Hola, %s</h2>
    <p>Como nos solicitaste, te adjuntamos de nuevo el recibo <b>%s</b>.</p>
    <p style="font-size:1.1em;">¡Gracias por confiar en nosotros!</p>`, clientName, receiptNumber)
	return subject, html
}

// PasswordResetEmail builds the message with the single-use reset link.
// The link stays valid for 30 minutes.
func PasswordResetEmail(userName, resetLink string) (subject, html string) {
	subject = "Restablece tu contraseña"
	html = fmt.Sprintf(`
    <h2 style="color:#2b6cb0;">Hola, %s</h2>
    <p>Hemos recibido una solicitud para restablecer tu contraseña. Pulsa el siguiente enlace para elegir una nueva:</p>
    <p><a href="%s" style="background:#2b6cb0;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none;">Restablecer contraseña</a></p>
    <p>El enlace caduca en 30 minutos y solo puede usarse una vez.</p>
    <p>Si no has sido tú, ignora este correo; tu contraseña seguirá siendo la misma.</p>`, userName, resetLink)
	return subject, html
}
