package mailer

import "fmt"

func accessCodeText(clientName, code, directLink, baseURL string) string {
	return fmt.Sprintf(`TGZ Conciergerie - Code d'accès

Bonjour %s,

Vous avez reçu un nouveau code d'accès pour remplir votre attestation de prestation de service.

Votre code d'accès : %s

Accès direct : %s

Ou rendez-vous sur %s et saisissez le code %s

Important :
- Ce code est valide pour une seule utilisation
- Il expire dans 7 jours
- Gardez ce code confidentiel

En cas de problème, contactez-nous à contact@tgzconciergerie.com

Cordialement,
L'équipe TGZ Conciergerie
`, clientName, code, directLink, baseURL, code)
}

func accessCodeHTML(clientName, code, directLink, baseURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #1e293b; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0;">
      <h1>TGZ Conciergerie</h1>
      <p>Plateforme d'attestations de service</p>
    </div>
    <div style="background: #f8fafc; padding: 30px; border-radius: 0 0 8px 8px;">
      <h2>Bonjour %s,</h2>
      <p>Vous avez reçu un nouveau code d'accès pour remplir votre attestation de prestation de service.</p>
      <div style="background: #22c55e; color: white; padding: 20px; text-align: center; border-radius: 8px;">
        <p>Votre code d'accès :</p>
        <div style="font-size: 24px; font-weight: bold; letter-spacing: 3px;">%s</div>
      </div>
      <p><a href="%s" style="display: inline-block; background: #3b82f6; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Accéder directement à la plateforme</a></p>
      <ol>
        <li>Rendez-vous sur <a href="%s">%s</a></li>
        <li>Saisissez le code : <strong>%s</strong></li>
        <li>Remplissez votre attestation</li>
      </ol>
      <p><strong>Important :</strong> ce code est valide pour une seule utilisation, expire dans 7 jours et doit rester confidentiel.</p>
      <p>Cordialement,<br>L'équipe TGZ Conciergerie</p>
    </div>
  </div>
</body>
</html>`, clientName, code, directLink, baseURL, baseURL, code)
}
